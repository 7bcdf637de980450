// Package similarity holds the string scoring primitives shared by scan
// resolution and inventory search.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// TokenSortRatio scores a and b in [0,100] after lower-casing, dropping
// punctuation and sorting the words, so "tablet paracetamol" and
// "Paracetamol Tablet" score 100. The score is the indel ratio
// 2*LCS/(len(a)+len(b)), rounded half to even.
func TokenSortRatio(a, b string) int {
	sa := sortedTokens(a)
	sb := sortedTokens(b)
	if sa == "" || sb == "" {
		return 0
	}
	if sa == sb {
		return 100
	}

	total := utf8.RuneCountInString(sa) + utf8.RuneCountInString(sb)
	return int(math.RoundToEven(100 * float64(2*commonSubsequence(sa, sb)) / float64(total)))
}

// commonSubsequence returns the length in runes of the longest common
// subsequence of a and b.
func commonSubsequence(a, b string) int {
	if utf8.RuneCountInString(a) > utf8.RuneCountInString(b) {
		a, b = b, a
	}
	if fuzzy.Match(a, b) {
		return utf8.RuneCountInString(a)
	}

	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for _, x := range ra {
		for j, y := range rb {
			if x == y {
				curr[j+1] = prev[j] + 1
			} else {
				curr[j+1] = max(prev[j+1], curr[j])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func sortedTokens(s string) string {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Trigram returns the trigram similarity of a and b in [0,1], computed the
// same way as PostgreSQL's pg_trgm similarity().
func Trigram(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(ta)+len(tb)-shared)
}

func trigrams(s string) map[string]struct{} {
	set := map[string]struct{}{}
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}
