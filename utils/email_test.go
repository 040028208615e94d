package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmailServiceDisabledWithoutToken(t *testing.T) {
	t.Setenv("POSTMARK_API_TOKEN", "")

	assert.Nil(t, NewEmailService())
}

func TestNewEmailServiceEnabledWithToken(t *testing.T) {
	t.Setenv("POSTMARK_API_TOKEN", "server-token")

	assert.NotNil(t, NewEmailService())
}
