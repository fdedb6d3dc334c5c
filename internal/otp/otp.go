// Package otp derives the six digit time-step codes that gate debt approval.
package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// StepSeconds is the width of one code window.
	StepSeconds = 60
	// Digits is the length of a rendered code.
	Digits = 6

	modulus    = 1_000_000
	secretSize = 20
)

var ErrEmptySecret = errors.New("otp: empty secret")

// Counter returns the time-step counter for t. Division floors, so instants
// before the epoch land in negative windows, encoded as two's complement.
func Counter(t time.Time) uint64 {
	sec := t.Unix()
	step := sec / StepSeconds
	if sec%StepSeconds < 0 {
		step--
	}
	return uint64(step)
}

// Generate returns the code for the window containing now.
func Generate(secret []byte, now time.Time) string {
	return hotp(secret, Counter(now))
}

func hotp(secret []byte, counter uint64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0F
	v := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7FFFFFFF
	return fmt.Sprintf("%0*d", Digits, v%modulus)
}

// DecodeSecret turns a stored hex secret into key bytes.
func DecodeSecret(hexSecret string) ([]byte, error) {
	hexSecret = strings.TrimSpace(hexSecret)
	if hexSecret == "" {
		return nil, ErrEmptySecret
	}
	key, err := hex.DecodeString(hexSecret)
	if err != nil {
		return nil, fmt.Errorf("otp: decode secret: %w", err)
	}
	return key, nil
}

func GenerateHex(hexSecret string, now time.Time) (string, error) {
	key, err := DecodeSecret(hexSecret)
	if err != nil {
		return "", err
	}
	return Generate(key, now), nil
}

// Verify reports whether code matches the current window. Only the
// current window is accepted.
func Verify(hexSecret, code string, now time.Time) (bool, error) {
	want, err := GenerateHex(hexSecret, now)
	if err != nil {
		return false, err
	}
	code = strings.TrimSpace(code)
	if len(code) != Digits {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1, nil
}

// NewSecret returns a fresh hex encoded secret.
func NewSecret() (string, error) {
	b := make([]byte, secretSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
