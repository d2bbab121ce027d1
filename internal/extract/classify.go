package extract

import (
	"regexp"
	"strings"
)

// Classification is the coarse product family used as a hard cross-match
// filter.
type Classification string

const (
	ClassRetail   Classification = "retail"
	ClassTester   Classification = "tester"
	ClassSet      Classification = "set"
	ClassHairMist Classification = "hair_mist"
	ClassBodyMist Classification = "body_mist"
	ClassOther    Classification = "other"
	ClassRejected Classification = "rejected"
)

var rejectedKeywords = []string{
	"sample", "عينة", "عينه", "miniature", "مينياتشر", "travel size",
	"decant", "تقسيم",
}

var testerKeywords = []string{"tester", "تستر", "تيستر"}

// "set " keeps its trailing space so "settee"-like tokens don't trigger it.
var setKeywords = []string{
	"set ", "سيت", "مجموعة", "gift", "هدية", "طقم", "coffret",
}

var (
	hairMistRe = regexp.MustCompile(`\bhair\s*mist\b|عطر\s*شعر|معطر\s*شعر|للشعر|\bhair\b`)
	bodyMistRe = regexp.MustCompile(`\bbody\s*mist\b|بودي\s*مست|بخاخ\s*جسم|معطر\s*جسم|\bbody\s*spray\b`)
	otherRe    = regexp.MustCompile(`بودرة|بودره|powder|كريم|cream|لوشن|lotion|ديودرنت|deodorant`)
)

// Classify assigns exactly one classification, evaluated in fixed priority
// order: rejected > tester > set > hair_mist > body_mist > other > retail.
// The fixed order makes the checks mutually exclusive for names that hit
// several keyword sets at once. Always runs over the original text.
func Classify(name string) Classification {
	nl := strings.ToLower(name)
	switch {
	case containsAny(nl, rejectedKeywords):
		return ClassRejected
	case containsAny(nl, testerKeywords):
		return ClassTester
	case containsAny(nl, setKeywords):
		return ClassSet
	case hairMistRe.MatchString(nl):
		return ClassHairMist
	case bodyMistRe.MatchString(nl):
		return ClassBodyMist
	case otherRe.MatchString(nl):
		return ClassOther
	default:
		return ClassRetail
	}
}

// FamiliesCompatible reports whether two classifications may cross-match.
// Equal classes always may. Across differing classes: rejected matches
// nothing, the non-retail families (set, hair_mist, body_mist, other) match
// nothing outside themselves, and tester only matches tester.
func FamiliesCompatible(a, b Classification) bool {
	if a == b {
		return true
	}
	if a == ClassRejected || b == ClassRejected {
		return false
	}
	if isIsolatedFamily(a) || isIsolatedFamily(b) {
		return false
	}
	// Remaining values are retail and tester; they never cross-match.
	return (a == ClassTester) == (b == ClassTester)
}

func isIsolatedFamily(c Classification) bool {
	switch c {
	case ClassSet, ClassHairMist, ClassBodyMist, ClassOther:
		return true
	}
	return false
}
