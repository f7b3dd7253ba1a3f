package models

import (
	"fmt"
	"strings"
)

// Account is a registered identity. Username is the collection key and is not
// part of the stored record.
type Account struct {
	Username string `json:"-"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
	IsBanned bool   `json:"banned"`
}

// NewAccount builds a regular, unbanned account. password is stored as given,
// callers hash it first.
func NewAccount(username, password string) (Account, error) {
	if username == "" || password == "" {
		return Account{}, fmt.Errorf("username and password required: %w", ErrInvalidInput)
	}
	// site identifiers are owner/title, so an owner must not contain the separator
	if strings.Contains(username, "/") {
		return Account{}, fmt.Errorf("username %q contains '/': %w", username, ErrInvalidInput)
	}
	return Account{Username: username, Password: password}, nil
}

// Summary drops the credential.
func (a Account) Summary() AccountSummary {
	return AccountSummary{Username: a.Username, IsAdmin: a.IsAdmin, IsBanned: a.IsBanned}
}

// AccountView is what a successful login hands back.
type AccountView struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type AccountSummary struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	IsBanned bool   `json:"banned"`
}
