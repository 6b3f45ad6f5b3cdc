package models

// AppUser is one row of the users sheet. RowNumber and PasswordColumn
// identify the cell that gets rewritten when the password changes; there
// is no other stable identifier in the store.
type AppUser struct {
	RowNumber      int
	Name           string
	Username       string
	Password       string // bcrypt hash or legacy plaintext
	Email          string // optional, used for password reset mail
	PasswordColumn int    // zero-based column index of the password cell
}

// SessionUser is the identity carried by the session token.
type SessionUser struct {
	Username           string `json:"username"`
	Name               string `json:"name"`
	MustChangePassword bool   `json:"mustChangePassword,omitempty"`
}
