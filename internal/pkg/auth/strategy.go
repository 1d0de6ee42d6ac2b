package auth

import "time"

type Strategy interface {
	IssueToken(identity string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
