package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mahwous/pricewatch/internal/textnorm"
)

// productLineStopWords are marketing terms, concentration words, gender
// words, filler fragments of compound brand names, and generic tokens that
// would inflate product-line similarity between different models of the same
// brand. Words of three runes or fewer are removed on whole-word boundaries
// only; longer words are removed as substrings.
var productLineStopWords = []string{
	"عطر", "تستر", "تيستر", "tester", "perfume", "fragrance",
	"او دو", "او دي", "أو دو", "أو دي",
	"بارفان", "بارفيوم", "برفيوم", "بيرفيوم", "برفان", "parfum", "edp", "eau de parfum",
	"تواليت", "toilette", "edt", "eau de toilette",
	"كولون", "cologne", "edc", "eau de cologne",
	"انتنس", "انتينس", "intense", "اكستريم", "extreme",
	"ابسولو", "ابسوليو", "absolue", "absolute", "absolu",
	"اكستريت", "اكسترايت", "extrait", "extract",
	"دو", "de", "du", "la", "le", "les", "the",
	// Sub-brand names left behind after the main brand is removed.
	"تيرينزي", "ترينزي", "terenzi", "terenzio",
	"كوركدجيان", "كركدجيان", "kurkdjian",
	"ميزون", "مايزون", "maison",
	"باريس", "paris",
	"دوف", "dove",
	"للرجال", "للنساء", "رجالي", "نسائي", "للجنسين",
	"for men", "for women", "unisex", "pour homme", "pour femme",
	"ml", "مل", "ملي", "milliliter",
	"كرتون ابيض", "كرتون أبيض", "white box",
	"اصلي", "original", "authentic", "جديد", "new",
	"اصدار", "اصدارات", "edition", "limited",
	"spray", "بخاخ", "عطور",
	"الرجالي", "النسائي", "رجال", "نساء",
	"men", "women", "homme", "femme",
	"مان", "man", "uomo", "donna",
	"هوم", "فيم",
	"او", "ou", "or", "و",
	"لو", "لا", "lo",
	"di", "دي",
	// Fragments of compound brand names that survive alias removal.
	"جان", "بول", "jean", "paul", "gaultier",
	"كارولينا", "هيريرا", "carolina", "herrera",
	"دولشي", "غابانا", "dolce", "gabbana",
	"رالف", "لورين", "ralph", "lauren",
	"ايزي", "مياكي", "issey", "miyake",
	"فان", "كليف", "van", "cleef", "arpels",
	"اورمند", "جايان", "ormonde", "jayne",
	"توماس", "كوسمالا", "thomas", "kosmala",
	"فرانسيس", "francis",
	"روسيندو", "ماتيو", "rosendo", "mateu",
	"نيكولاي", "nicolai",
	"ارماف", "armaf",
}

// Arabic prepositions and the definite article, removed on word boundaries
// after brand stripping.
var prepositions = []string{"من", "في", "لل", "ال"}

// stopRule removes one stop-word. Short words (≤3 runes) carry a
// precompiled whole-word pattern; longer words are removed as raw
// substrings. Rules run in productLineStopWords order so multi-word phrases
// ("eau de parfum") are consumed before their fragments ("de").
type stopRule struct {
	word string
	re   *regexp.Regexp // nil for substring removal
}

var (
	stopRules = buildStopRules(productLineStopWords)
	prepRules = buildStopRules(prepositions)

	sizeTokenRe    = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:ml|مل|ملي)?`)
	plainPunctRe   = regexp.MustCompile(`[^\w\s` + "؀-ۿ" + `]`)
	plMultiSpaceRe = regexp.MustCompile(`\s+`)
)

// buildStopRules precompiles the removal rules. Go's regexp \b is
// ASCII-only, so whole-word boundaries are expressed as
// start/whitespace/end, which also works for Arabic tokens.
func buildStopRules(words []string) []stopRule {
	rules := make([]stopRule, 0, len(words))
	for _, w := range words {
		r := stopRule{word: w}
		if utf8.RuneCountInString(w) <= 3 {
			r.re = regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(w) + `(?:\s|$)`)
		}
		rules = append(rules, r)
	}
	return rules
}

func applyStopRules(s string, rules []stopRule) string {
	for _, r := range rules {
		if r.re != nil {
			s = r.re.ReplaceAllString(s, " ")
		} else {
			s = strings.ReplaceAll(s, r.word, " ")
		}
	}
	return s
}

// ProductLine isolates the model name by removing the brand (and all its
// synonym aliases), stop-words, size tokens, and punctuation, then folding
// Arabic letter variants. "Burberry Hero EDT 100ml" yields "hero", so Hero
// and London under the same brand cannot be confused.
func ProductLine(text, brand string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	n := lower(text)

	if brand != "" {
		brandLower := lower(brand)
		brandNorm := textnorm.Normalize(brand)
		n = strings.ReplaceAll(n, brandLower, " ")
		if brandNorm != brandLower {
			n = strings.ReplaceAll(n, brandNorm, " ")
		}
		for _, alias := range textnorm.AliasesFor(brandLower, brandNorm) {
			n = strings.ReplaceAll(n, alias, " ")
		}
	}

	n = applyStopRules(n, prepRules)
	n = applyStopRules(n, stopRules)

	n = sizeTokenRe.ReplaceAllString(n, " ")
	n = plainPunctRe.ReplaceAllString(n, " ")
	n = textnorm.FoldLetterVariants(n)
	return strings.TrimSpace(plMultiSpaceRe.ReplaceAllString(n, " "))
}
