package models

import (
	"time"

	"github.com/lib/pq"
)

// EmailChangeState tracks the lifecycle of a requested email change.
// An empty value means no change was ever requested.
type EmailChangeState string

const (
	EmailChangeNone     EmailChangeState = ""
	EmailChangePending  EmailChangeState = "pending"
	EmailChangeVerified EmailChangeState = "verified"
)

// SocialMediaOptions are the platforms a customer may pick as their
// preferred contact channel.
var SocialMediaOptions = []string{"WhatsApp", "Instagram", "Snapchat", "Telegram", "Twitter"}

// ValidSocialMedia reports whether the option is one of SocialMediaOptions.
func ValidSocialMedia(option string) bool {
	for _, valid := range SocialMediaOptions {
		if option == valid {
			return true
		}
	}
	return false
}

// Measurement is a customer's body-measurement profile. Every field is
// optional; tailors read whichever subset the garment needs.
type Measurement struct {
	// Top
	Neck             *float64 `json:"neck,omitempty"`
	Shoulder         *float64 `json:"shoulder,omitempty"`
	Wrist            *float64 `json:"wrist,omitempty"`
	Chest            *float64 `json:"chest,omitempty"`
	LongSleeveLength *float64 `json:"long_sleeve_length,omitempty"`
	Bicep            *float64 `json:"bicep,omitempty"`
	ShirtLength      *float64 `json:"shirt_length,omitempty"`
	AbdomenSize      *float64 `json:"abdomen_size,omitempty"`

	// Trouser
	Waist         *float64 `json:"waist,omitempty"`
	TrouserLength *float64 `json:"trouser_length,omitempty"`
	Laps          *float64 `json:"laps,omitempty"`
	Calf          *float64 `json:"calf,omitempty"`
	KneeLength    *float64 `json:"knee_length,omitempty"`
	Ankle         *float64 `json:"ankle,omitempty"`

	// Additional
	Inseam                   *float64 `json:"inseam,omitempty"`
	Outseam                  *float64 `json:"outseam,omitempty"`
	BackLength               *float64 `json:"back_length,omitempty"`
	BustHeight               *float64 `json:"bust_height,omitempty"`
	ShortSleeveLength        *float64 `json:"short_sleeve_length,omitempty"`
	ThreeQuarterSleeveLength *float64 `json:"three_quarter_sleeve_length,omitempty"`
	Elbow                    *float64 `json:"elbow,omitempty"`
	Armhole                  *float64 `json:"armhole,omitempty"`
}

// User represents a registered customer account.
type User struct {
	BaseModel
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `gorm:"uniqueIndex" json:"email"`
	Phone     *string `gorm:"uniqueIndex" json:"phone,omitempty"`

	PasswordHash string `json:"-"`

	State           string         `json:"state"`
	PreferredSM     string         `json:"preferred_sm"`
	SMUsername      string         `json:"sm_username"`
	MostlyWears     pq.StringArray `gorm:"type:text[]" json:"mostly_wears"`
	Measurement     Measurement    `gorm:"embedded;embeddedPrefix:measurement_" json:"measurement"`
	DeliveryAddress string         `json:"delivery_address"`
	Note            string         `json:"note"`
	LastLogin       *time.Time     `json:"last_login"`

	// Signup verification. The account is unusable for authenticated
	// operations until the emailed OTP has been verified.
	OTPHash      string    `json:"-"`
	OTPCreatedAt time.Time `json:"-"`
	OTPVerified  bool      `json:"otp_verified"`

	// Reset token backing both password-reset and email-verification
	// links. Token and timestamp are always set or cleared together.
	ResetToken          *string    `gorm:"index" json:"-"`
	ResetTokenCreatedAt *time.Time `json:"-"`

	// Deferred email change: the new address sits in PendingEmail until
	// the verification link is visited.
	EmailChangeState EmailChangeState `json:"email_change_state"`
	PendingEmail     string           `json:"-"`

	// At most one live refresh token per account; rotated on every login
	// and refresh, cleared on logout.
	RefreshToken string `json:"-"`
}

// OTPExpired reports whether the stored OTP has aged past the window.
func (u *User) OTPExpired(window time.Duration) bool {
	return time.Since(u.OTPCreatedAt) > window
}

// ResetTokenExpired reports whether the stored reset token has aged past
// the window. A missing token counts as expired.
func (u *User) ResetTokenExpired(window time.Duration) bool {
	if u.ResetToken == nil || u.ResetTokenCreatedAt == nil {
		return true
	}
	return time.Since(*u.ResetTokenCreatedAt) > window
}
