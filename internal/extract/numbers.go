package extract

import (
	"regexp"
	"strings"
)

// numberWords maps spelled-out and roman numbers (Latin and Arabic
// transliterations) to digit strings, for names like "نمبر ون" or
// "Armaf No. VII".
var numberWords = map[string]string{
	"ون": "1", "تو": "2", "ثري": "3", "فور": "4", "فايف": "5",
	"سكس": "6", "سفن": "7", "ايت": "8", "ناين": "9", "تن": "10",
	"one": "1", "two": "2", "three": "3", "four": "4", "five": "5",
	"six": "6", "seven": "7", "eight": "8", "nine": "9", "ten": "10",
	"i": "1", "ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9", "x": "10",
}

// numberWordPrefixes introduce a product number by word ("number five").
var numberWordPrefixes = []string{"نمبر", "number", "no", "رقم"}

var (
	prefixedNumRe = regexp.MustCompile(`(?:no|num|number|نمبر|رقم|№|#)\s*(\d+)`)

	// A digit run glued to a preceding letter ("سفن7", "oud24").
	letterGluedNumRe = regexp.MustCompile(`[a-z` + "؀-ۿ" + `](\d+)`)

	standaloneNumRe = regexp.MustCompile(`\b(\d{1,3})\b`)
)

// commonSizesML are bottle sizes that must never be mistaken for a
// product-identity number when glued to a letter.
var commonSizesML = map[string]bool{
	"30": true, "50": true, "75": true, "80": true, "100": true,
	"125": true, "150": true, "200": true, "250": true, "300": true,
}

// standaloneIdentityNums are bare numbers treated as product identity when
// not followed by a volume unit ("212", "360", "No 9" written plainly).
var standaloneIdentityNums = map[string]bool{
	"1": true, "2": true, "3": true, "4": true, "5": true, "6": true,
	"7": true, "8": true, "9": true, "11": true, "12": true, "13": true,
	"14": true, "15": true, "16": true, "17": true, "18": true, "19": true,
	"21": true, "212": true, "360": true,
}

// IdentifyingNumbers extracts product-identity numbers from a name: "No. 5",
// roman numerals, spelled-out numbers, and bare numbers that are not
// immediately followed by a volume unit. Size numbers are excluded, so
// "Sauvage 100ml" has no identifying numbers while "212 VIP 80ml" has
// {"212"}. Two items whose non-empty sets differ are different products.
func IdentifyingNumbers(text string) map[string]bool {
	nums := make(map[string]bool)
	tl := strings.ToLower(text)

	for _, m := range prefixedNumRe.FindAllStringSubmatch(tl, -1) {
		nums[m[1]] = true
	}

	for word, digit := range numberWords {
		for _, p := range numberWordPrefixes {
			if strings.Contains(tl, p+" "+word) {
				nums[digit] = true
				break
			}
		}
	}

	for _, m := range letterGluedNumRe.FindAllStringSubmatch(tl, -1) {
		if !commonSizesML[m[1]] {
			nums[m[1]] = true
		}
	}

	for _, m := range standaloneNumRe.FindAllStringSubmatchIndex(tl, -1) {
		v := tl[m[2]:m[3]]
		if !standaloneIdentityNums[v] {
			continue
		}
		after := strings.TrimSpace(sliceAfter(tl, m[3], 5))
		if strings.HasPrefix(after, "ml") || strings.HasPrefix(after, "مل") {
			continue // size, not identity
		}
		nums[v] = true
	}

	return nums
}

// NumberSetsDiffer reports whether both sets are non-empty and unequal.
// Empty sets never veto a match.
func NumberSetsDiffer(a, b map[string]bool) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if len(a) != len(b) {
		return true
	}
	for k := range a {
		if !b[k] {
			return true
		}
	}
	return false
}

func sliceAfter(s string, pos, n int) string {
	if pos >= len(s) {
		return ""
	}
	end := pos + n
	if end > len(s) {
		end = len(s)
	}
	return s[pos:end]
}
