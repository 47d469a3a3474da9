package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, validateEmail("driver@example.com"))
	assert.True(t, validateEmail("first.last+tag@sub.example.co"))

	assert.False(t, validateEmail(""))
	assert.False(t, validateEmail("no-at-sign"))
	assert.False(t, validateEmail("missing@tld"))
	assert.False(t, validateEmail("@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, validatePassword("Test1234"))
	assert.True(t, validatePassword("longerpassword9"))

	assert.False(t, validatePassword("short1"))
	assert.False(t, validatePassword("nodigitshere"))
	assert.False(t, validatePassword("12345678"))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, validateUsername("driver_42"))
	assert.True(t, validateUsername("abc"))

	assert.False(t, validateUsername("ab"))
	assert.False(t, validateUsername("has space"))
	assert.False(t, validateUsername("bad-dash"))
}
