package helpers

import (
	"errors"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidateRegisterInput(userName, email, password string) error {
	if strings.TrimSpace(userName) == "" {
		return errors.New("user_name wajib diisi")
	}
	if len(strings.TrimSpace(userName)) < 3 {
		return errors.New("user_name minimal 3 karakter")
	}
	if !isValidEmail(strings.TrimSpace(email)) {
		return errors.New("format email tidak valid")
	}
	if len(password) < 8 {
		return errors.New("password minimal 8 karakter")
	}
	return nil
}

func ValidateLoginInput(identifier, password string) error {
	if strings.TrimSpace(identifier) == "" {
		return errors.New("identifier wajib diisi")
	}
	if password == "" {
		return errors.New("password wajib diisi")
	}
	return nil
}
