package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/ario/internal/config"
	"github.com/example/ario/internal/database"
	"github.com/example/ario/internal/models"
	"github.com/example/ario/internal/routes"
	"github.com/example/ario/internal/services"
	"github.com/example/ario/internal/utils"
)

// mailRecorder captures outbound email instead of delivering it.
type mailRecorder struct {
	sent []services.Email
}

func (m *mailRecorder) Send(email services.Email) error {
	m.sent = append(m.sent, email)
	return nil
}

func (m *mailRecorder) last(t *testing.T) services.Email {
	t.Helper()
	if len(m.sent) == 0 {
		t.Fatal("no email was sent")
	}
	return m.sent[len(m.sent)-1]
}

// blobRecorder fakes the image store, minting deterministic URLs.
type blobRecorder struct {
	uploads   []string
	destroyed []string
	failNext  bool
}

func (b *blobRecorder) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	if b.failNext {
		b.failNext = false
		return "", errors.New("upload failed")
	}
	if _, err := io.Copy(io.Discard, file); err != nil {
		return "", err
	}
	b.uploads = append(b.uploads, filename)
	return "https://res.cloudinary.test/image/upload/styles/" + filename, nil
}

func (b *blobRecorder) Destroy(ctx context.Context, publicID string) error {
	b.destroyed = append(b.destroyed, publicID)
	return nil
}

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	cfg   *config.Config
	mails *mailRecorder
	blobs *blobRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "ario-test.db")
	conn, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		BaseURL:          "http://localhost:8080",
		JWTSecret:        "test-session-secret",
		JWTRefreshSecret: "test-refresh-secret",
		SessionTTL:       time.Hour,
		RefreshTTL:       7 * 24 * time.Hour,
		CredentialWindow: 2 * time.Hour,
		SupportedState:   "lagos",
	}

	env := &testEnv{
		db:    conn,
		cfg:   cfg,
		mails: &mailRecorder{},
		blobs: &blobRecorder{},
	}

	env.app = fiber.New()
	routes.Register(env.app, conn, cfg, env.mails, env.blobs)
	return env
}

// createUser inserts an account directly, hashing the password and OTP the
// same way the handlers do.
func (env *testEnv) createUser(t *testing.T, email, phone, password, otp string, verified bool) models.User {
	t.Helper()

	passwordHash, err := utils.HashSecret(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	otpHash, err := utils.HashSecret(otp)
	if err != nil {
		t.Fatalf("hash otp: %v", err)
	}

	user := models.User{
		FirstName:    "Ade",
		LastName:     "Okafor",
		Email:        email,
		PasswordHash: passwordHash,
		State:        "Lagos",
		OTPHash:      otpHash,
		OTPCreatedAt: time.Now(),
		OTPVerified:  verified,
	}
	if phone != "" {
		user.Phone = &phone
	}

	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (env *testEnv) sessionToken(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(env.cfg.JWTSecret, user.ID, user.Email, env.cfg.SessionTTL)
	if err != nil {
		t.Fatalf("generate session token: %v", err)
	}
	return token
}

func (env *testEnv) reloadUser(t *testing.T, id uuid.UUID) models.User {
	t.Helper()
	var user models.User
	if err := env.db.First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user
}

func (env *testEnv) reloadUserByEmail(t *testing.T, email string) models.User {
	t.Helper()
	var user models.User
	if err := env.db.First(&user, "email = ?", email).Error; err != nil {
		t.Fatalf("reload user %s: %v", email, err)
	}
	return user
}

// backdateOTP ages the stored OTP so expiry branches can be exercised.
func (env *testEnv) backdateOTP(t *testing.T, id uuid.UUID, age time.Duration) {
	t.Helper()
	err := env.db.Model(&models.User{}).Where("id = ?", id).
		Update("otp_created_at", time.Now().Add(-age)).Error
	if err != nil {
		t.Fatalf("backdate otp: %v", err)
	}
}

// backdateResetToken ages the stored reset token.
func (env *testEnv) backdateResetToken(t *testing.T, id uuid.UUID, age time.Duration) {
	t.Helper()
	err := env.db.Model(&models.User{}).Where("id = ?", id).
		Update("reset_token_created_at", time.Now().Add(-age)).Error
	if err != nil {
		t.Fatalf("backdate reset token: %v", err)
	}
}

// doJSON performs a JSON request through the fiber app. An empty token
// leaves the request unauthenticated.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return response
}

// doMultipart performs a multipart form request with an optional image file.
func (env *testEnv) doMultipart(t *testing.T, method, path, token string, fields map[string]string, imageName string, imageData []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(imageData); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	request := httptest.NewRequest(method, path, &buf)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return response
}

func decodeBody(t *testing.T, response *http.Response) map[string]interface{} {
	t.Helper()
	defer response.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

// readBody returns the raw response body; fiber reports handler errors as
// plain text rather than JSON.
func readBody(t *testing.T, response *http.Response) string {
	t.Helper()
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(raw)
}

var otpPattern = regexp.MustCompile(`<strong>(\d{6})</strong>`)

// otpFromEmail extracts the plaintext OTP code from a captured message.
func otpFromEmail(t *testing.T, email services.Email) string {
	t.Helper()
	match := otpPattern.FindStringSubmatch(email.HTML)
	if match == nil {
		t.Fatalf("no OTP code found in email %q", email.Subject)
	}
	return match[1]
}

var linkTokenPattern = regexp.MustCompile(`/users/(?:verifyemail|resetPassword)/([0-9a-f]{64})`)

// tokenFromEmail extracts the opaque link token from a captured message.
func tokenFromEmail(t *testing.T, email services.Email) string {
	t.Helper()
	match := linkTokenPattern.FindStringSubmatch(email.HTML)
	if match == nil {
		t.Fatalf("no link token found in email %q", email.Subject)
	}
	return match[1]
}
