package model

import "time"

// Principal represents an authenticated caller of the rewards service.
// The ledger core treats the login as an opaque identity string.
type Principal struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
