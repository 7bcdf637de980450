package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type takenNames map[string]bool

func (t takenNames) UsernameExists(_ context.Context, username string) (bool, error) {
	return t[username], nil
}

type alwaysTaken struct{}

func (alwaysTaken) UsernameExists(context.Context, string) (bool, error) { return true, nil }

func TestDeriveUsername_FromEmail(t *testing.T) {
	got, err := DeriveUsername(context.Background(), "jane.doe+rx@example.com", takenNames{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "jane.doe+rx" {
		t.Errorf("expected jane.doe+rx, got %s", got)
	}
}

func TestDeriveUsername_StripsAndTruncates(t *testing.T) {
	got, _ := DeriveUsername(context.Background(), "dr (house)!#$@clinic.org", takenNames{})
	if got != "drhouse" {
		t.Errorf("expected drhouse, got %s", got)
	}

	long := strings.Repeat("a", 45) + "@example.com"
	got, _ = DeriveUsername(context.Background(), long, takenNames{})
	if len(got) != 30 {
		t.Errorf("expected 30 characters, got %d", len(got))
	}
}

func TestDeriveUsername_KeepsUnicodeLetters(t *testing.T) {
	got, _ := DeriveUsername(context.Background(), "josé@x.org", takenNames{})
	if got != "josé" {
		t.Errorf("expected josé, got %s", got)
	}

	long := strings.Repeat("é", 40) + "@example.com"
	got, _ = DeriveUsername(context.Background(), long, takenNames{})
	if got != strings.Repeat("é", 30) {
		t.Errorf("expected 30 runes of é, got %q", got)
	}
}

func TestDeriveUsername_AppendsSuffixUntilFree(t *testing.T) {
	taken := takenNames{"pharm": true, "pharm_1": true, "pharm_2": true}
	got, err := DeriveUsername(context.Background(), "pharm@example.com", taken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "pharm_3" {
		t.Errorf("expected pharm_3, got %s", got)
	}
}

func TestDeriveUsername_RandomWithoutEmail(t *testing.T) {
	got, err := DeriveUsername(context.Background(), "", takenNames{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 12 {
		t.Errorf("expected 12 random characters, got %q", got)
	}
}

func TestDeriveUsername_Bounded(t *testing.T) {
	_, err := DeriveUsername(context.Background(), "busy@example.com", alwaysTaken{})
	if !errors.Is(err, ErrUsernameExhausted) {
		t.Errorf("expected ErrUsernameExhausted, got %v", err)
	}
}
