// Package similarity provides token- and substring-based string similarity
// ratios on a 0-100 scale for ranking catalog match candidates.
package similarity

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// indelParams costs substitutions as a delete plus an insert, so Distance
// computes the Indel distance used by all three ratios.
var indelParams = levenshtein.NewParams().InsCost(1).DelCost(1).SubCost(2)

// Ratio returns the normalized Indel similarity of a and b in [0, 100].
// Both empty returns 100; exactly one empty returns 0.
func Ratio(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}
	dist := levenshtein.Distance(a, b, indelParams)
	return 100 * (1 - float64(dist)/float64(la+lb))
}

// TokenSortRatio tokenizes both strings, sorts the tokens, and compares the
// rejoined forms. Word order does not affect the result.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the sorted token intersection against each side's
// full sorted token list and returns the best of the three pairings. Strings
// sharing a large common token core score high even when one side carries
// extra tokens.
func TokenSetRatio(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 100
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var common, diffA, diffB []string
	for tok := range ta {
		if tb[tok] {
			common = append(common, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(diffA)
	sort.Strings(diffB)

	core := strings.Join(common, " ")
	full1 := joinNonEmpty(core, strings.Join(diffA, " "))
	full2 := joinNonEmpty(core, strings.Join(diffB, " "))

	best := Ratio(full1, full2)
	if core != "" {
		if r := Ratio(core, full1); r > best {
			best = r
		}
		if r := Ratio(core, full2); r > best {
			best = r
		}
	}
	return best
}

// PartialRatio slides the shorter string across the longer one and returns
// the best window ratio. A short name fully contained in a longer one
// scores 100.
func PartialRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}

	shortStr := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := Ratio(shortStr, string(long[i:i+len(short)]))
		if r > best {
			best = r
		}
		if best >= 100 {
			break
		}
	}
	return best
}

func sortedTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func tokenSet(s string) map[string]bool {
	toks := strings.Fields(s)
	set := make(map[string]bool, len(toks))
	for _, t := range toks {
		set[t] = true
	}
	return set
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
