package auth

import (
	"strings"
	"unicode/utf8"

	"github.com/xyz-asif/bloghunt/internal/pkg/validator"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72 // bcrypt input limit
	MaxNameLength     = 50
	MaxBioLength      = 500
)

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks a first or last name after trimming
func ValidateName(field, name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", apperrors.Validation(field + " is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", apperrors.Validation(field + " must be 50 characters or less")
	}

	return name, nil
}

// ValidateEmail normalizes and checks an email address
func ValidateEmail(email string) (string, error) {
	email = NormalizeEmail(email)
	if !validator.IsValidEmail(email) {
		return "", apperrors.Validation("Invalid email")
	}
	return email, nil
}

// ValidatePassword checks the password length bounds
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperrors.Validation("Password must be at least 6 characters")
	}
	if len(password) > MaxPasswordBytes {
		return apperrors.Validation("Password must be at most 72 bytes")
	}
	return nil
}

// ValidateBio checks the bio length
func ValidateBio(bio string) (string, error) {
	bio = strings.TrimSpace(bio)

	if utf8.RuneCountInString(bio) > MaxBioLength {
		return "", apperrors.Validation("bio cannot exceed 500 characters")
	}

	return bio, nil
}

// ValidateRegister normalizes req in place
func ValidateRegister(req *RegisterRequest) error {
	var err error
	if req.FirstName, err = ValidateName("firstName", req.FirstName); err != nil {
		return err
	}
	if req.LastName, err = ValidateName("lastName", req.LastName); err != nil {
		return err
	}
	if req.Email, err = ValidateEmail(req.Email); err != nil {
		return err
	}
	return ValidatePassword(req.Password)
}

// ValidateUpdateProfile normalizes the provided fields in place
func ValidateUpdateProfile(req *UpdateProfileRequest) error {
	if req.FirstName != nil {
		v, err := ValidateName("firstName", *req.FirstName)
		if err != nil {
			return err
		}
		req.FirstName = &v
	}
	if req.LastName != nil {
		v, err := ValidateName("lastName", *req.LastName)
		if err != nil {
			return err
		}
		req.LastName = &v
	}
	if req.Email != nil {
		v, err := ValidateEmail(*req.Email)
		if err != nil {
			return err
		}
		req.Email = &v
	}
	if req.Bio != nil {
		v, err := ValidateBio(*req.Bio)
		if err != nil {
			return err
		}
		req.Bio = &v
	}
	return nil
}
