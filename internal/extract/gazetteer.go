package extract

import "github.com/mahwous/pricewatch/internal/textnorm"

// knownBrands is the brand gazetteer, Latin and Arabic entries. Match order
// is list order, so multi-word brands that contain another brand's name must
// precede it. Loaded once; matching uses the precomputed lookup below.
var knownBrands = []string{
	"Parfums de Marly", "Maison Francis Kurkdjian", "Maison Margiela",
	"Maison Alhambra", "Tiziana Terenzi", "Acqua di Parma",
	"Dolce & Gabbana", "Jean Paul Gaultier", "Carolina Herrera",
	"Narciso Rodriguez", "Salvatore Ferragamo", "Arabian Oud",
	"Al Haramain", "Ard Al Zaafaran", "Swiss Arabian", "Clive Christian",
	"Oscar de la Renta", "Giorgio Beverly Hills", "Histoires de Parfums",
	"Elizabeth Arden", "Estee Lauder", "Frederic Malle", "Ormonde Jayne",
	"Atelier Cologne", "Angel Schlesser", "Annick Goutal",
	"Antonio Banderas", "Banana Republic", "Bottega Veneta",
	"Carner Barcelona", "Club de Nuit", "Costume National",
	"Ermenegildo Zegna", "Franck Olivier", "Issey Miyake",
	"Jo Malone", "Jimmy Choo", "Juicy Couture", "Kenneth Cole",
	"Lolita Lempicka", "Michael Kors", "Paco Rabanne", "Philipp Plein",
	"Ralph Lauren", "Roberto Cavalli", "Serge Lutens", "Stella McCartney",
	"Ted Lapidus", "Tom Ford", "Van Cleef", "Vera Wang", "Viktor Rolf",
	"Zadig Voltaire", "Bond No 9", "Nobile 1942", "Memo Paris",
	"Dior", "Chanel", "Gucci", "Versace", "Armani", "YSL", "Prada",
	"Burberry", "Hermes", "Creed", "Montblanc", "Amouage", "Rasasi",
	"Lattafa", "Ajmal", "Afnan", "Armaf", "Mancera", "Montale", "Kilian",
	"Mugler", "Nishane", "Xerjoff", "Byredo", "Le Labo", "Roja",
	"Valentino", "Bvlgari", "Cartier", "Hugo Boss", "Calvin Klein",
	"Givenchy", "Lancome", "Guerlain", "Davidoff", "Coach", "Initio",
	"Diptyque", "Missoni", "Moschino", "Dunhill", "Bentley", "Jaguar",
	"Boucheron", "Chopard", "Elie Saab", "Escada", "Ferragamo", "Fendi",
	"Kenzo", "Lacoste", "Loewe", "Rochas", "Tiffany", "Azzaro", "Chloe",
	"Penhaligons", "Floris", "Nabeel", "Asdaaf", "Zoologist", "Tauer",
	"Benetton", "Celine", "Dsquared2", "Sisley", "Mexx", "Amadou",
	"Thameen", "Nasomatto", "Nicolai", "Replica", "Aerin", "Balenciaga",
	"Boadicea", "Clean", "Commodity", "Derek Lam", "Guess", "Illuminum",
	"Lalique", "Lubin", "Miu Miu", "Moresque", "Oud Elite", "Police",
	"Reminiscence", "Ungaro", "Zegna", "Ajwad", "Milestone",
	"لطافة", "العربية للعود", "رصاسي", "أجمل", "الحرمين", "أرماف",
	"أمواج", "كريد", "توم فورد", "ديور", "شانيل", "غوتشي", "برادا",
	"ميسوني", "جوسي كوتور", "موسكينو", "دانهيل", "بنتلي",
	"كينزو", "لاكوست", "فندي", "ايلي صعب", "ازارو",
	"كيليان", "نيشان", "زيرجوف", "بنهاليغونز", "مارلي", "جيرلان",
	"تيزيانا ترينزي", "مايزون فرانسيس", "بايريدو", "لي لابو",
	"مانسيرا", "مونتالي", "روجا", "جو مالون", "ثمين", "أمادو",
	"ناسوماتو", "ميزون مارجيلا", "نيكولاي",
	"جيمي تشو", "لاليك", "بوليس", "فيكتور رولف",
	"كلوي", "بالنسياغا", "ميو ميو",
}

// brandEntry caches a gazetteer entry's lowercase and normalized forms so
// Brand never re-normalizes the gazetteer per call.
type brandEntry struct {
	display string
	lower   string
	norm    string
}

var brandLookup = buildBrandLookup()

func buildBrandLookup() []brandEntry {
	entries := make([]brandEntry, 0, len(knownBrands))
	seen := make(map[string]bool, len(knownBrands))
	for _, b := range knownBrands {
		if seen[b] {
			continue
		}
		seen[b] = true
		entries = append(entries, brandEntry{
			display: b,
			lower:   lower(b),
			norm:    textnorm.Normalize(b),
		})
	}
	return entries
}
