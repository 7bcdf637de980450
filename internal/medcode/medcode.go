// Package medcode builds and parses the identity string embedded in a
// medicine's QR code.
//
// The payload format is MED-{id}-{name}-{batch}. Name and batch are
// embedded verbatim, so values containing '-' cannot be recovered
// unambiguously: Decode always takes the first four segments.
package medcode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	Prefix    = "MED"
	Separator = "-"

	// QRSize is the edge length in pixels of rendered codes.
	QRSize = 256
)

var ErrParse = errors.New("not a medicine code")

// Payload is the identity recovered from a medicine code.
type Payload struct {
	ID          int
	Name        string
	BatchNumber string
}

// Encode returns the payload string for a medicine.
func Encode(id int, name, batchNumber string) string {
	return fmt.Sprintf("%s-%d-%s-%s", Prefix, id, name, batchNumber)
}

// Decode parses text produced by Encode.
func Decode(text string) (Payload, error) {
	parts := strings.Split(text, Separator)
	if len(parts) < 4 || parts[0] != Prefix {
		return Payload{}, fmt.Errorf("%w: %q", ErrParse, text)
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return Payload{}, fmt.Errorf("%w: invalid id %q", ErrParse, parts[1])
	}

	return Payload{ID: id, Name: parts[2], BatchNumber: parts[3]}, nil
}

// Prefill extracts the name and batch number to pre-populate a creation
// form from previously scanned data.
func Prefill(data string) (name, batchNumber string, ok bool) {
	parts := strings.Split(data, Separator)
	if len(parts) < 4 || parts[0] != Prefix {
		return "", "", false
	}
	return parts[2], parts[3], true
}

// Render encodes payload as a PNG QR code.
func Render(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Low, QRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
