package services

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/windbreaker/internal/common"
)

// validateEmail accepts a bare addr-spec only ("ana@x.com", not
// "Ana <ana@x.com>"). Case is preserved: the store matches emails exactly.
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	return nil
}

func validateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	return nil
}

func validateReset(email, newPassword string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", common.ErrorValidation)
	}
	return nil
}
