package models

// Account is a stored identity. PasswordHash is the hasher's opaque output and
// never the plaintext password; it must not leave the service layer.
type Account struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
}

// Identity is the public view of an Account.
type Identity struct {
	Email       string
	DisplayName string
}

// Identity returns the account's public fields.
func (a *Account) Identity() *Identity {
	return &Identity{Email: a.Email, DisplayName: a.DisplayName}
}
