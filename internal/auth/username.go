package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	maxUsernameLength = 30
	randomUsernameLen = 12
	// maxUsernameAttempts bounds the suffix loop in DeriveUsername.
	maxUsernameAttempts = 1000
)

var (
	ErrUsernameExhausted = errors.New("no free username found")

	disallowedUsernameChars = regexp.MustCompile(`[^\p{L}\p{N}_.@+-]`)
)

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// UsernameChecker reports whether a username is already taken.
type UsernameChecker interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// DeriveUsername builds a unique username for a federated login. The base is
// the local part of email, restricted to Unicode letters, digits and _.@+- and
// cut to 30 characters, or a random string when there is no email. Taken names get
// a numeric suffix: base_1, base_2, ...
func DeriveUsername(ctx context.Context, email string, users UsernameChecker) (string, error) {
	base := ""
	if email != "" {
		local, _, _ := strings.Cut(email, "@")
		base = disallowedUsernameChars.ReplaceAllString(local, "")
		if runes := []rune(base); len(runes) > maxUsernameLength {
			base = string(runes[:maxUsernameLength])
		}
	}
	if base == "" {
		var err error
		if base, err = randomString(randomUsernameLen); err != nil {
			return "", err
		}
	}

	candidate := base
	for suffix := 1; suffix <= maxUsernameAttempts; suffix++ {
		taken, err := users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, suffix)
	}
	return "", ErrUsernameExhausted
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = randomAlphabet[idx.Int64()]
	}
	return string(b), nil
}
