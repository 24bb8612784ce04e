package utils

import "regexp"

var (
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)
	passwordLetter  = regexp.MustCompile(`[A-Za-z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSymbol  = regexp.MustCompile(`[@$!%*?&]`)

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^0\d{10}$`)
)

// ValidPassword requires at least 8 characters with at least one letter,
// one digit and one symbol from the allowed set.
func ValidPassword(password string) bool {
	return passwordCharset.MatchString(password) &&
		passwordLetter.MatchString(password) &&
		passwordDigit.MatchString(password) &&
		passwordSymbol.MatchString(password)
}

// ValidEmail checks the standard local@domain shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone requires exactly 11 digits with a leading zero.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
