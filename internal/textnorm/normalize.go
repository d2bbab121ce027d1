// Package textnorm canonicalizes free-text product names: case and
// whitespace, bilingual synonym folding, Arabic letter-variant folding, and
// punctuation stripping. Normalize is total and idempotent; every other
// matching component builds on it.
package textnorm

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

var (
	// nonWordRe strips everything outside word characters, whitespace, the
	// Arabic block, and the dot (kept so decimal sizes survive).
	nonWordRe    = regexp.MustCompile(`[^\w\s` + "؀-ۿ" + `.]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)

	replMu           sync.RWMutex
	wordReplacements []rule
)

// LoadReplacements installs the configuration-supplied word-replacement
// table. It is applied before the built-in synonym table so multi-word
// replacements match before synonym folding fragments them. Keys are ordered
// longest-first (then lexically) so the result does not depend on map
// iteration order. Intended to be called once at startup.
func LoadReplacements(m map[string]string) {
	rules := make([]rule, 0, len(m))
	for k, v := range m {
		rules = append(rules, rule{from: strings.ToLower(k), to: v})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].from) != len(rules[j].from) {
			return len(rules[i].from) > len(rules[j].from)
		}
		return rules[i].from < rules[j].from
	})
	replMu.Lock()
	wordReplacements = rules
	replMu.Unlock()
}

// Normalize canonicalizes a product name. It never fails: non-matching input
// passes through lowercased and whitespace-collapsed, and
// Normalize(Normalize(x)) == Normalize(x) for all x.
func Normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return ""
	}

	replMu.RLock()
	for _, r := range wordReplacements {
		t = strings.ReplaceAll(t, r.from, r.to)
	}
	replMu.RUnlock()

	for _, r := range synonymTable {
		t = strings.ReplaceAll(t, r.from, r.to)
	}

	t = nonWordRe.ReplaceAllString(t, " ")
	t = multiSpaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// FoldLetterVariants applies only the Arabic letter-variant folds (hamza
// forms, taa marbuta, alef maqsura). Used by product-line extraction, which
// must not apply the full synonym table.
func FoldLetterVariants(text string) string {
	return letterFolder.Replace(text)
}

// AliasesFor returns the synonym-table keys folding to any of the given
// canonical forms, in table order. Product-line extraction uses this to
// strip every spelling of a brand, not just the canonical one.
func AliasesFor(canonical ...string) []string {
	var out []string
	for _, r := range synonymTable {
		for _, c := range canonical {
			if c != "" && r.to == c {
				out = append(out, r.from)
				break
			}
		}
	}
	return out
}

var letterFolder = strings.NewReplacer(
	"أ", "ا",
	"إ", "ا",
	"آ", "ا",
	"ة", "ه",
	"ى", "ي",
)
