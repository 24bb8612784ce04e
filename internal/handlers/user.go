package handlers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/ario/internal/config"
	"github.com/example/ario/internal/middleware"
	"github.com/example/ario/internal/models"
	"github.com/example/ario/internal/services"
	"github.com/example/ario/internal/utils"
)

// UserHandler owns the account lifecycle: signup, OTP verification, login,
// token rotation, profile updates and the deferred email-change flow.
type UserHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.Mailer
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB, cfg *config.Config, mailer services.Mailer) *UserHandler {
	return &UserHandler{db: db, cfg: cfg, mailer: mailer}
}

func (h *UserHandler) verifyEmailLink(token string) string {
	return fmt.Sprintf("%s/users/verifyemail/%s", h.cfg.BaseURL, token)
}

func (h *UserHandler) resetPasswordLink(token string) string {
	return fmt.Sprintf("%s/users/resetPassword/%s", h.cfg.BaseURL, token)
}

// rotateOTP regenerates the stored OTP hash and emails the new code.
// The previous code stops validating as soon as the user is saved.
func (h *UserHandler) rotateOTP(user *models.User) error {
	code, hash, err := utils.GenerateOTP()
	if err != nil {
		return err
	}

	user.OTPHash = hash
	user.OTPCreatedAt = time.Now()
	if err := h.db.Save(user).Error; err != nil {
		return err
	}

	email, err := services.ComposeOTPEmail(user.Email, user.FirstName, code)
	if err != nil {
		return err
	}
	return h.mailer.Send(email)
}

// rotateVerificationLink issues a fresh email-verification token and sends
// the link to the pending address.
func (h *UserHandler) rotateVerificationLink(user *models.User) error {
	token, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}

	now := time.Now()
	user.ResetToken = &token
	user.ResetTokenCreatedAt = &now
	user.EmailChangeState = models.EmailChangePending
	if err := h.db.Save(user).Error; err != nil {
		return err
	}

	recipient := user.PendingEmail
	if recipient == "" {
		recipient = user.Email
	}

	email, err := services.ComposeEmailVerificationEmail(recipient, user.FirstName, h.verifyEmailLink(token))
	if err != nil {
		return err
	}
	return h.mailer.Send(email)
}

// issueTokenPair creates a session/refresh pair and stores the refresh
// token, superseding any previous one.
func (h *UserHandler) issueTokenPair(user *models.User) (sessionToken, refreshToken string, err error) {
	sessionToken, err = utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Email, h.cfg.SessionTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = utils.GenerateToken(h.cfg.JWTRefreshSecret, user.ID, user.Email, h.cfg.RefreshTTL)
	if err != nil {
		return "", "", err
	}

	user.RefreshToken = refreshToken
	return sessionToken, refreshToken, nil
}

func profileResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"email":        user.Email,
		"phone":        user.Phone,
		"preferred_sm": user.PreferredSM,
		"sm_username":  user.SMUsername,
		"measurement":  user.Measurement,
		"mostly_wears": user.MostlyWears,
	}
}

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	State     string `json:"state"`
}

// Signup creates a new unverified account and emails its OTP. Re-submitting
// an email whose OTP already expired rotates the OTP instead of creating a
// duplicate account.
func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.ValidPassword(req.Password) {
		return fiber.NewError(fiber.StatusBadRequest,
			"Password must be at least 8 characters long and contain letters, numbers and special characters")
	}
	if req.Phone != "" && !utils.ValidPhone(req.Phone) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid phone number")
	}
	if !utils.ValidEmail(req.Email) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid email format")
	}

	query := h.db.Where("email = ?", req.Email)
	if req.Phone != "" {
		query = query.Or("phone = ?", req.Phone)
	}

	var existing models.User
	err := query.First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if err == nil {
		if existing.Email == req.Email {
			if existing.OTPExpired(h.cfg.CredentialWindow) {
				if err := h.rotateOTP(&existing); err != nil {
					return err
				}
				return fiber.NewError(fiber.StatusBadRequest,
					"OTP has expired. A new OTP has been sent to your email.")
			}
			return fiber.NewError(fiber.StatusBadRequest,
				"User with this email already exists and OTP is still valid.")
		}
		return fiber.NewError(fiber.StatusBadRequest, "User with this phone number already exists.")
	}

	if req.State != "" && !strings.EqualFold(req.State, h.cfg.SupportedState) {
		return fiber.NewError(fiber.StatusBadRequest, "We don't operate in your state")
	}

	passwordHash, err := utils.HashSecret(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	code, otpHash, err := utils.GenerateOTP()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate OTP")
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		State:        req.State,
		OTPHash:      otpHash,
		OTPCreatedAt: time.Now(),
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	sessionToken, refreshToken, err := h.issueTokenPair(&user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	email, err := services.ComposeOTPEmail(user.Email, user.FirstName, code)
	if err != nil {
		return err
	}
	if err := h.mailer.Send(email); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"message":       "User created successfully",
		"token":         sessionToken,
		"refresh_token": refreshToken,
	})
}

type verifyOTPRequest struct {
	OTP string `json:"otp"`
}

// VerifyOTP checks the submitted code against the stored hash for the
// authenticated email. Expired codes are silently rotated and re-sent.
func (h *UserHandler) VerifyOTP(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ?", auth.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if user.OTPVerified {
		return fiber.NewError(fiber.StatusBadRequest, "User is already verified")
	}

	if user.OTPExpired(h.cfg.CredentialWindow) {
		if err := h.rotateOTP(&user); err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusBadRequest, "OTP has expired. A new OTP has been sent.")
	}

	if !utils.CheckSecret(user.OTPHash, req.OTP) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP")
	}

	user.OTPVerified = true

	welcome, err := services.ComposeWelcomeEmail(user.Email, user.FirstName)
	if err != nil {
		return err
	}
	if err := h.mailer.Send(welcome); err != nil {
		return err
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "OTP verified successfully"})
}

// ResendOTP unconditionally rotates the stored OTP, invalidating the
// previous code.
func (h *UserHandler) ResendOTP(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.Where("email = ?", auth.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if err := h.rotateOTP(&user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "OTP has been resent"})
}

type loginRequest struct {
	EmailOrPhone string `json:"email_or_phone"`
	Password     string `json:"password"`
}

// Login authenticates by email or phone. A pending email change does not
// block login; a fresh verification link is re-sent alongside the tokens.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	err := h.db.Where("email = ? OR phone = ?", req.EmailOrPhone, req.EmailOrPhone).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Incorrect email or phone number")
		}
		return err
	}

	if !user.OTPVerified {
		return fiber.NewError(fiber.StatusBadRequest, "OTP not verified. Please verify your OTP first.")
	}

	if !utils.CheckSecret(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid password")
	}

	now := time.Now()
	user.LastLogin = &now

	sessionToken, refreshToken, err := h.issueTokenPair(&user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	message := "Welcome back"
	if user.EmailChangeState == models.EmailChangePending {
		if err := h.rotateVerificationLink(&user); err != nil {
			return err
		}
		message = "Please click the link sent to your new email to verify it."
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       message,
		"user":          profileResponse(&user),
		"token":         sessionToken,
		"refresh_token": refreshToken,
	})
}

// Logout clears the stored refresh token, invalidating future refreshes
// even with a previously valid token.
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", auth.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	user.RefreshToken = ""
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "User logged out successfully"})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken exchanges a refresh token for a new session token and
// rotates the stored refresh token. A cryptographically valid token that
// no longer matches storage was superseded by a newer login and is
// rejected as an authorization failure.
func (h *UserHandler) RefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.RefreshToken == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Refresh token required")
	}

	claims, err := utils.ParseToken(h.cfg.JWTRefreshSecret, req.RefreshToken)
	if err != nil {
		return fiber.NewError(fiber.StatusForbidden, "Invalid or expired refresh token")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusForbidden, "Invalid refresh token")
		}
		return err
	}

	if user.RefreshToken != req.RefreshToken {
		return fiber.NewError(fiber.StatusForbidden, "Invalid refresh token")
	}

	sessionToken, refreshToken, err := h.issueTokenPair(&user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Token refreshed",
		"token":         sessionToken,
		"refresh_token": refreshToken,
	})
}

type updateUserRequest struct {
	FirstName       *string             `json:"first_name"`
	LastName        *string             `json:"last_name"`
	Email           *string             `json:"email"`
	Password        *string             `json:"password"`
	Phone           *string             `json:"phone"`
	PreferredSM     *string             `json:"preferred_sm"`
	SMUsername      *string             `json:"sm_username"`
	Measurement     *models.Measurement `json:"measurement"`
	MostlyWears     []string            `json:"mostly_wears"`
	DeliveryAddress *string             `json:"delivery_address"`
	State           *string             `json:"state"`
	Note            *string             `json:"note"`
}

// UpdateUser applies a partial profile update. A changed email is never
// applied directly: the new address is parked as pending and only swapped
// in when its verification link is visited.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", auth.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if !user.OTPVerified {
		return fiber.NewError(fiber.StatusBadRequest, "OTP is not verified")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.PreferredSM != nil && !models.ValidSocialMedia(*req.PreferredSM) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid preferred social media option")
	}
	if req.Password != nil && !utils.ValidPassword(*req.Password) {
		return fiber.NewError(fiber.StatusBadRequest,
			"Password must be at least 8 characters long and contain letters, numbers and special characters")
	}
	if req.Phone != nil && !utils.ValidPhone(*req.Phone) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid phone number format")
	}
	if req.Email != nil && !utils.ValidEmail(*req.Email) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid email format")
	}

	if req.Phone != nil && (user.Phone == nil || *req.Phone != *user.Phone) {
		var count int64
		if err := h.db.Model(&models.User{}).Where("phone = ?", *req.Phone).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Phone number is already in use")
		}
	}

	emailChanged := req.Email != nil && *req.Email != user.Email
	if emailChanged {
		var count int64
		if err := h.db.Model(&models.User{}).Where("email = ?", *req.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Email is already in use")
		}
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.PreferredSM != nil {
		user.PreferredSM = *req.PreferredSM
	}
	if req.SMUsername != nil {
		user.SMUsername = *req.SMUsername
	}
	if req.Measurement != nil {
		user.Measurement = *req.Measurement
	}
	if req.MostlyWears != nil {
		user.MostlyWears = req.MostlyWears
	}
	if req.DeliveryAddress != nil {
		user.DeliveryAddress = *req.DeliveryAddress
	}
	if req.State != nil {
		user.State = *req.State
	}
	if req.Note != nil {
		user.Note = *req.Note
	}
	if req.Password != nil {
		hash, err := utils.HashSecret(*req.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
		}
		user.PasswordHash = hash
	}

	if emailChanged {
		user.PendingEmail = *req.Email
		if err := h.rotateVerificationLink(&user); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Please click the link sent to the new email to verify it",
		})
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"user":    profileResponse(&user),
	})
}

// VerifyEmailUpdate completes a deferred email change via the emailed
// link. Expired links are rotated and re-sent instead of verified.
func (h *UserHandler) VerifyEmailUpdate(c *fiber.Ctx) error {
	token := c.Params("token")

	var user models.User
	if err := h.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if user.ResetTokenExpired(h.cfg.CredentialWindow) {
		if err := h.rotateVerificationLink(&user); err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusBadRequest,
			"Token expired. A new verification link has been sent to your email.")
	}

	if user.PendingEmail != "" {
		user.Email = user.PendingEmail
		user.PendingEmail = ""
	}
	user.EmailChangeState = models.EmailChangeVerified
	user.ResetToken = nil
	user.ResetTokenCreatedAt = nil

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Email has been updated successfully"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues an opaque reset token and emails the reset link.
func (h *UserHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	now := time.Now()
	user.ResetToken = &token
	user.ResetTokenCreatedAt = &now
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	email, err := services.ComposePasswordResetEmail(user.Email, user.FirstName, h.resetPasswordLink(token))
	if err != nil {
		return err
	}
	if err := h.mailer.Send(email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Password reset link has been sent to your email"})
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ResetPassword sets a new password for the holder of a live reset token.
// An expired token is cleared so it cannot be retried.
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")

	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.ValidPassword(req.NewPassword) {
		return fiber.NewError(fiber.StatusBadRequest,
			"Password must be at least 8 characters long and contain letters, numbers and special characters")
	}

	var user models.User
	if err := h.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired token")
		}
		return err
	}

	if user.ResetTokenExpired(h.cfg.CredentialWindow) {
		user.ResetToken = nil
		user.ResetTokenCreatedAt = nil
		if err := h.db.Save(&user).Error; err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired token")
	}

	hash, err := utils.HashSecret(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetTokenCreatedAt = nil
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Password has been reset successfully"})
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

// ResendVerificationLink re-issues the email-change link, but only while a
// change is actually pending.
func (h *UserHandler) ResendVerificationLink(c *fiber.Ctx) error {
	var req resendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Email not found")
		}
		return err
	}

	if user.EmailChangeState != models.EmailChangePending {
		return fiber.NewError(fiber.StatusBadRequest, "Email is already verified")
	}

	if err := h.rotateVerificationLink(&user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Verification link resent successfully"})
}

// GetUser returns the authenticated user's profile projection.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", auth.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "user": profileResponse(&user)})
}

// GetAllUsers lists every account.
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Find(&users).Error; err != nil {
		return err
	}

	if len(users) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "No user in database")
	}

	return c.JSON(fiber.Map{"success": true, "users": users})
}

// DeleteUser removes a single account by id.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if err := h.db.Delete(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}

// DeleteAllUsers removes every account and reports the count.
func (h *UserHandler) DeleteAllUsers(c *fiber.Ctx) error {
	result := h.db.Where("1 = 1").Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "No users to delete")
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "All users deleted successfully",
		"deleted_count": result.RowsAffected,
	})
}

type addMostlyWearRequest struct {
	SelectedWear json.RawMessage `json:"selected_wear"`
}

// AddMostlyWear appends one or more wear categories to the profile. The
// field accepts either a single string or a list.
func (h *UserHandler) AddMostlyWear(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addMostlyWearRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var selected []string
	if err := json.Unmarshal(req.SelectedWear, &selected); err != nil {
		var single string
		if err := json.Unmarshal(req.SelectedWear, &single); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "selected_wear must be a string or list of strings")
		}
		selected = []string{single}
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", auth.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	wears := make([]string, 0, len(user.MostlyWears)+len(selected))
	for _, wear := range user.MostlyWears {
		if wear != "" {
			wears = append(wears, wear)
		}
	}
	for _, wear := range selected {
		if wear != "" {
			wears = append(wears, wear)
		}
	}
	user.MostlyWears = wears

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Mostly wears updated successfully",
		"user":    profileResponse(&user),
	})
}

type addPreferredSMRequest struct {
	PreferredSM string `json:"preferred_sm"`
	SMUsername  string `json:"sm_username"`
}

// AddPreferredSM sets the preferred social medium and handle.
func (h *UserHandler) AddPreferredSM(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addPreferredSMRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !models.ValidSocialMedia(req.PreferredSM) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid preferred social media option")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", auth.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	user.PreferredSM = req.PreferredSM
	user.SMUsername = req.SMUsername
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Preferred social media selected successfully",
		"user":    profileResponse(&user),
	})
}

// AddMeasurement replaces the stored body-measurement profile.
func (h *UserHandler) AddMeasurement(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var measurement models.Measurement
	if err := c.BodyParser(&measurement); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", auth.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	user.Measurement = measurement
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Measurement added successfully",
		"data":    user.Measurement,
	})
}
