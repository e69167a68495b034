package services

import (
	"testing"

	"github.com/dmitrijs2005/windbreaker/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"ana@x.com", "Ana.Smith+tag@example.co.uk"} {
		assert.NoError(t, validateEmail(ok), ok)
	}
	for _, bad := range []string{"", "ana", "ana@", "@x.com", "Ana <ana@x.com>", " ana@x.com"} {
		assert.ErrorIs(t, validateEmail(bad), common.ErrorValidation, bad)
	}
}

func TestValidateRegistration(t *testing.T) {
	assert.NoError(t, validateRegistration("Ana", "ana@x.com", "hunter2"))
	assert.ErrorIs(t, validateRegistration("", "ana@x.com", "hunter2"), common.ErrorValidation)
	assert.ErrorIs(t, validateRegistration("Ana", "ana@x.com", ""), common.ErrorValidation)
}

func TestValidateReset(t *testing.T) {
	assert.NoError(t, validateReset("ana@x.com", "pw"))
	assert.ErrorIs(t, validateReset("ana@x.com", ""), common.ErrorValidation)
	assert.ErrorIs(t, validateReset("x", "pw"), common.ErrorValidation)
}
