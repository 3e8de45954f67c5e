package validators

import (
	"strings"
	"unicode"

	"marketly/internal/services"
)

func ValidateRegistration(req *services.RegisterRequest) ValidationErrors {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = SanitizeInput(req.Name)
	if req.Phone != "" {
		req.Phone = normalizePhoneNumber(req.Phone)
	}

	errors := ValidateStruct(req)

	if req.Password != "" && !hasLetterAndDigit(req.Password) {
		errors = append(errors, ValidationError{
			Field:   "password",
			Tag:     "password",
			Message: "Password must contain at least one letter and one digit",
		})
	}

	return errors
}

func ValidateLogin(req *services.LoginRequest) ValidationErrors {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return ValidateStruct(req)
}

func ValidatePasswordChange(req *services.ChangePasswordRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.NewPassword != "" && !hasLetterAndDigit(req.NewPassword) {
		errors = append(errors, ValidationError{
			Field:   "new_password",
			Tag:     "password",
			Message: "Password must contain at least one letter and one digit",
		})
	}

	return errors
}

func hasLetterAndDigit(password string) bool {
	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// normalizePhoneNumber strips spaces, dashes and brackets, keeping a leading +.
func normalizePhoneNumber(phone string) string {
	var b strings.Builder
	for i, char := range strings.TrimSpace(phone) {
		if unicode.IsDigit(char) || (char == '+' && i == 0) {
			b.WriteRune(char)
		}
	}
	return b.String()
}
