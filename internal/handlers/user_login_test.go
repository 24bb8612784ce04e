package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/example/ario/internal/models"
)

func login(env *testEnv, t *testing.T, emailOrPhone, password string) *http.Response {
	t.Helper()
	return env.doJSON(t, http.MethodPost, "/users/login", "", map[string]interface{}{
		"email_or_phone": emailOrPhone,
		"password":       password,
	})
}

func TestLoginRejectsUnverifiedOTPRegardlessOfPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a@b.com", "", "Abc123!@", "654321", false)

	response := login(env, t, "a@b.com", "Abc123!@")
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", response.StatusCode)
	}
	if msg := readBody(t, response); !strings.Contains(msg, "OTP not verified") {
		t.Fatalf("expected OTP-not-verified message, got %q", msg)
	}
}

func TestLoginSucceedsByEmailOrPhone(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "08012345678", "Abc123!@", "654321", true)

	byEmail := login(env, t, "a@b.com", "Abc123!@")
	if byEmail.StatusCode != http.StatusOK {
		t.Fatalf("login by email: expected 200, got %d", byEmail.StatusCode)
	}
	body := decodeBody(t, byEmail)
	if body["token"] == nil || body["refresh_token"] == nil {
		t.Fatal("expected a session and refresh token")
	}

	byPhone := login(env, t, "08012345678", "Abc123!@")
	if byPhone.StatusCode != http.StatusOK {
		t.Fatalf("login by phone: expected 200, got %d", byPhone.StatusCode)
	}

	updated := env.reloadUser(t, user.ID)
	if updated.LastLogin == nil || time.Since(*updated.LastLogin) > time.Minute {
		t.Fatal("expected LastLogin to be recorded")
	}
}

func TestLoginRejectsWrongPasswordAndUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a@b.com", "", "Abc123!@", "654321", true)

	wrong := login(env, t, "a@b.com", "Wrong123!@")
	if wrong.StatusCode != http.StatusBadRequest {
		t.Fatalf("wrong password: expected 400, got %d", wrong.StatusCode)
	}

	unknown := login(env, t, "nobody@b.com", "Abc123!@")
	if unknown.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", unknown.StatusCode)
	}
}

func TestLoginRotatesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "", "Abc123!@", "654321", true)

	first := decodeBody(t, login(env, t, "a@b.com", "Abc123!@"))
	firstRefresh := first["refresh_token"].(string)

	second := decodeBody(t, login(env, t, "a@b.com", "Abc123!@"))
	secondRefresh := second["refresh_token"].(string)

	if firstRefresh == secondRefresh {
		t.Fatal("each login must issue a distinct refresh token")
	}
	if env.reloadUser(t, user.ID).RefreshToken != secondRefresh {
		t.Fatal("stored refresh token must match the latest login")
	}

	// The superseded token is cryptographically valid but must be rejected.
	response := env.doJSON(t, http.MethodPost, "/users/jwtrefreshtoken", "",
		map[string]interface{}{"refresh_token": firstRefresh})
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("superseded refresh: expected 403, got %d", response.StatusCode)
	}
}

func TestLoginWithPendingEmailChangeStillIssuesTokens(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "", "Abc123!@", "654321", true)
	err := env.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"email_change_state": string(models.EmailChangePending),
		"pending_email":      "new@b.com",
	}).Error
	if err != nil {
		t.Fatalf("mark pending email: %v", err)
	}

	response := login(env, t, "a@b.com", "Abc123!@")
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	body := decodeBody(t, response)
	if body["token"] == nil || body["refresh_token"] == nil {
		t.Fatal("login with pending email change must still return tokens")
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "verify") {
		t.Fatalf("expected verification prompt, got %q", msg)
	}

	verification := env.mails.last(t)
	if verification.To != "new@b.com" {
		t.Errorf("verification link sent to %q, want new@b.com", verification.To)
	}
	if updated := env.reloadUser(t, user.ID); updated.EmailChangeState != models.EmailChangePending {
		t.Fatal("email change must remain pending until the link is visited")
	}
}

func TestLogoutClearsRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "", "Abc123!@", "654321", true)

	body := decodeBody(t, login(env, t, "a@b.com", "Abc123!@"))
	refreshToken := body["refresh_token"].(string)
	sessionToken := body["token"].(string)

	response := env.doJSON(t, http.MethodPost, "/users/logout", sessionToken, map[string]interface{}{})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", response.StatusCode)
	}

	if env.reloadUser(t, user.ID).RefreshToken != "" {
		t.Fatal("logout must clear the stored refresh token")
	}

	refresh := env.doJSON(t, http.MethodPost, "/users/jwtrefreshtoken", "",
		map[string]interface{}{"refresh_token": refreshToken})
	if refresh.StatusCode != http.StatusForbidden {
		t.Fatalf("refresh after logout: expected 403, got %d", refresh.StatusCode)
	}
}
