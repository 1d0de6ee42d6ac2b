package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

// HMACStrategy implements auth token creation/verification using HMAC signatures.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl}
}

// IssueToken generates a signed auth token bound to the identity.
func (s *HMACStrategy) IssueToken(identity string) (string, error) {
	if identity == "" {
		return "", ErrInvalidToken
	}
	expires := time.Now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%s:%d", identity, expires)
	sig := s.sign(payload)
	token := fmt.Sprintf("%s:%s", payload, sig)
	return base64.StdEncoding.EncodeToString([]byte(token)), nil
}

// ParseToken validates the token and returns the encoded identity. The
// identity itself may contain colons, so fields are split from the end.
func (s *HMACStrategy) ParseToken(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	decoded := string(raw)
	sigIdx := strings.LastIndex(decoded, ":")
	if sigIdx <= 0 {
		return "", ErrInvalidToken
	}
	payload := decoded[:sigIdx]

	expectedSig := s.sign(payload)
	if !hmac.Equal([]byte(expectedSig), []byte(decoded[sigIdx+1:])) {
		return "", ErrInvalidToken
	}

	expIdx := strings.LastIndex(payload, ":")
	if expIdx <= 0 {
		return "", ErrInvalidToken
	}
	identity := payload[:expIdx]

	expires, err := strconv.ParseInt(payload[expIdx+1:], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if time.Unix(expires, 0).Before(time.Now()) {
		return "", ErrInvalidToken
	}

	return identity, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
