package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("Paracetamol", "paracetamol"))
	assert.Equal(t, 100, TokenSortRatio("tablet paracetamol", "Paracetamol Tablet"))
	assert.Equal(t, 100, TokenSortRatio("para-cetamol", "cetamol para"))
	assert.Equal(t, 0, TokenSortRatio("", "Paracetamol"))
	assert.Equal(t, 0, TokenSortRatio("!!", "Paracetamol"))

	assert.Less(t, TokenSortRatio("paracet", "Ibuprofen"), 60)
	assert.Less(t, TokenSortRatio("paracet", "BATCH001"), 60)
}

func TestTokenSortRatioReferenceValues(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"parac", "Paracetamol", 62},
		{"paracet", "Paracetamol", 78},
		{"amoxicil", "Amoxicillin", 84},
		{"cetamol", "Paracetamol", 78},
		{"paracetmol", "Paracetamol", 95},
		{"para", "Paracetamol", 53},
		{"ibup", "Ibuprofen", 62},
		{"ibu", "IBU-2025", 55},
		{"pcm", "PCM-500", 60},
		{"paracetamol", "Paracetamol Forte", 79},
		{"paracet", "Ibuprofen", 38},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TokenSortRatio(c.a, c.b), "%q vs %q", c.a, c.b)
	}
}

func TestTokenSortRatioIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"ibuprofen 400", "Ibuprofen"},
		{"amox", "Amoxicillin 500mg"},
		{"BATCH0O1", "BATCH001"},
	}
	for _, p := range pairs {
		assert.Equal(t, TokenSortRatio(p[0], p[1]), TokenSortRatio(p[1], p[0]), "pair %v", p)
	}
}

func TestTrigram(t *testing.T) {
	assert.InDelta(t, 1.0, Trigram("BATCH001", "batch001"), 1e-9)
	assert.InDelta(t, 0.5, Trigram("BATCH0O1", "BATCH001"), 1e-9)
	assert.InDelta(t, 7.0/11.0, Trigram("BATCH002", "BATCH001"), 1e-9)
	assert.Zero(t, Trigram("XYZ999", "BATCH001"))
	assert.Zero(t, Trigram("", "BATCH001"))
	assert.Zero(t, Trigram("---", "BATCH001"))
}
