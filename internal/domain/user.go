package domain

import "strings"

type User struct {
	ID           string
	FirstName    string
	Surname      string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// NormalizeEmail is the canonical login identifier form.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

type SignUp struct {
	FirstName string
	Surname   string
	Email     string
	Password  string
}
