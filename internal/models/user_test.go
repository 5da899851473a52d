package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "j@x.com", NormalizeEmail("J@X.com"))
	assert.Equal(t, "j@x.com", NormalizeEmail("j@x.com"))
}

func TestPasswordMatches(t *testing.T) {
	assert.True(t, PasswordMatches("p", "p"))
	assert.False(t, PasswordMatches("p", "P"))
	assert.False(t, PasswordMatches("p", ""))
	assert.False(t, PasswordMatches("", "p"))
	assert.True(t, PasswordMatches("", ""))
}
