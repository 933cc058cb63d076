// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"regexp"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)
)

// ValidateEmail checks basic email shape. Callers must lowercase and trim
// the address before validating.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("please enter a valid email address")
	}
	return nil
}

// ValidateUsername checks username format. Callers must lowercase and trim
// the name before validating.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters (lowercase letters, numbers, underscores only)")
	}
	return nil
}

// IsValidURL reports whether s parses as an absolute http(s) URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	return nil
}
