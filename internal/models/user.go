package models

import (
	"crypto/subtle"
	"strings"
	"time"
)

// User is one row of the credential store, keyed by email.
//
// Password is stored and compared as plaintext for compatibility with the
// existing clients and data; it is also echoed back on fetch-one. Both are
// known security defects, see the README.
type User struct {
	Firstname    string     `json:"firstname"`
	Lastname     string     `json:"lastname"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	Role         string     `json:"role"`
	CreatedBy    string     `json:"created_by"`
	UpdatedBy    string     `json:"updated_by"`
	LastActivity *time.Time `json:"lastActivity"`
}

// NormalizeEmail lowercases an email. Applied at every read/write boundary
// that takes an email from the outside; token claims are left as signed.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// PasswordMatches compares a stored credential against a presented one.
// Plaintext byte-for-byte comparison, isolated here so a hashing scheme can
// replace it without touching handler control flow.
func PasswordMatches(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
