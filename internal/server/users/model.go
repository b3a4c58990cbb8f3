package users

import "github.com/dmitrijs2005/sessionkeeper/internal/models"

// Account is a directory entry: the public user record plus its bcrypt
// password hash, which never leaves this package.
type Account struct {
	models.User
	PasswordHash []byte
}

// Clone returns a deep copy of a.
func (a *Account) Clone() *Account {
	out := &Account{User: a.User.Clone()}
	out.PasswordHash = append([]byte(nil), a.PasswordHash...)
	return out
}
