package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var validate = validator.New()

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidateCredentials checks the shape of login input and returns nil or
// an *InputError keyed by "email" and "password".
func ValidateCredentials(email, password string) error {
	fields := map[string]string{}
	if !validEmail(email) {
		fields["email"] = "E-mail inválido"
	}
	if len([]rune(password)) < minPasswordLength {
		fields["password"] = "Senha deve ter pelo menos 6 caracteres"
	}
	if len(fields) > 0 {
		return &InputError{Fields: fields}
	}
	return nil
}

func validEmail(email string) bool {
	return validate.Var(strings.TrimSpace(email), "required,email") == nil
}

// NormalizeEmail trims and lower-cases an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsInputError reports whether err is an *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
