// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"inkwell/internal/models"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidatePassword checks if a password meets minimum strength requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}
	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	first, last := username[0], username[len(username)-1]
	if first == '_' || first == '-' || last == '_' || last == '-' {
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePostTitle requires a non-blank title of at most 100 characters.
func ValidatePostTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > models.PostTitleMaxLength {
		return fmt.Errorf("title must not exceed %d characters", models.PostTitleMaxLength)
	}
	return nil
}

// ValidatePostContent enforces the minimum body length. Characters are
// counted as Unicode code points.
func ValidatePostContent(content string) error {
	n := utf8.RuneCountInString(content)
	if n < models.PostContentMinLength {
		return fmt.Errorf("content must be at least %d characters (got %d)", models.PostContentMinLength, n)
	}
	if n > models.PostContentMaxLength {
		return fmt.Errorf("content must not exceed %d characters", models.PostContentMaxLength)
	}
	return nil
}

// ValidateComment checks an already trimmed comment body.
func ValidateComment(content string) error {
	if content == "" {
		return fmt.Errorf("comment content is required")
	}
	if utf8.RuneCountInString(content) > models.CommentMaxLength {
		return fmt.Errorf("comment must not exceed %d characters", models.CommentMaxLength)
	}
	return nil
}

// ValidateBio caps profile bios at 500 characters.
func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > 500 {
		return fmt.Errorf("bio must not exceed 500 characters")
	}
	return nil
}
