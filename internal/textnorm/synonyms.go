package textnorm

// rule is a single ordered substring replacement. The tables below are
// applied sequentially, so multi-word phrases must precede their fragments
// ("eau de parfum" before "parfum") and Arabic unit spellings must precede
// the single-letter folds.
type rule struct {
	from string
	to   string
}

// synonymTable folds multi-script and multi-form tokens to canonical forms:
// concentration phrases, brand transliterations, well-known fragrance line
// names, unit spellings, and Arabic letter variants (hamza forms, taa
// marbuta, alef maqsura).
var synonymTable = []rule{
	// Phrases that embed a concentration word. These must run before the
	// concentration fragments below, and their outputs must themselves be
	// fixed points of the table or a second Normalize would diverge.
	{"extrait de parfum", "extrait"},
	{"parfum extrait", "extrait"},
	{"parfums de marly", "marly"},

	// Concentration phrases.
	{"eau de parfum", "edp"},
	{"او دو بارفان", "edp"},
	{"أو دو بارفان", "edp"},
	{"او دي بارفان", "edp"},
	{"بارفان", "edp"},
	{"parfum", "edp"},
	{"perfume", "edp"},
	{"eau de toilette", "edt"},
	{"او دو تواليت", "edt"},
	{"أو دو تواليت", "edt"},
	{"تواليت", "edt"},
	{"toilette", "edt"},
	{"toilet", "edt"},
	{"eau de cologne", "edc"},
	{"كولون", "edc"},
	{"cologne", "edc"},

	// Brand transliterations, Arabic to canonical Latin.
	{"ديور", "dior"},
	{"شانيل", "chanel"},
	{"شنل", "chanel"},
	{"جورجيو ارماني", "armani"},
	{"أرماني", "armani"},
	{"ارماني", "armani"},
	{"فرساتشي", "versace"},
	{"فيرساتشي", "versace"},
	{"فرزاتشي", "versace"},
	{"غيرلان", "guerlain"},
	{"توم فورد", "tom ford"},
	{"تومفورد", "tom ford"},
	{"لطافة", "lattafa"},
	{"لطافه", "lattafa"},
	{"أجمل", "ajmal"},
	{"رصاصي", "rasasi"},
	{"أمواج", "amouage"},
	{"كريد", "creed"},
	{"ايف سان لوران", "ysl"},
	{"ايف سانت لوران", "ysl"},
	{"سان لوران", "ysl"},
	{"yves saint laurent", "ysl"},
	{"غوتشي", "gucci"},
	{"قوتشي", "gucci"},
	{"برادا", "prada"},
	{"برادة", "prada"},
	{"بربري", "burberry"},
	{"بيربري", "burberry"},
	{"بوربيري", "burberry"},
	{"جيفنشي", "givenchy"},
	{"جفنشي", "givenchy"},
	{"جيفانشي", "givenchy"},
	{"كارولينا هيريرا", "carolina herrera"},
	{"باكو رابان", "paco rabanne"},
	{"نارسيسو رودريغيز", "narciso rodriguez"},
	{"كالفن كلاين", "calvin klein"},
	{"هوجو بوس", "hugo boss"},
	{"فالنتينو", "valentino"},
	{"بلغاري", "bvlgari"},
	{"كارتييه", "cartier"},
	{"لانكوم", "lancome"},
	{"لانكم", "lancome"},
	{"جو مالون", "jo malone"},
	{"جومالون", "jo malone"},

	// Fragrance line names.
	{"سوفاج", "sauvage"},
	{"بلو", "bleu"},
	{"إيروس", "eros"},
	{"ايروس", "eros"},
	{"وان ميليون", "1 million"},
	{"إنفيكتوس", "invictus"},
	{"أفينتوس", "aventus"},
	{"عود", "oud"},
	{"مسك", "musk"},
	{"سكاندل", "scandal"},
	{"سكاندال", "scandal"},

	// More brand transliterations.
	{"ميسوني", "missoni"},
	{"جوسي كوتور", "juicy couture"},
	{"موسكينو", "moschino"},
	{"دانهيل", "dunhill"},
	{"بنتلي", "bentley"},
	{"كينزو", "kenzo"},
	{"لاكوست", "lacoste"},
	{"فندي", "fendi"},
	{"ايلي صعب", "elie saab"},
	{"ازارو", "azzaro"},
	{"فيراغامو", "ferragamo"},
	{"سلفاتوري", "ferragamo"},
	{"سالفاتوري", "ferragamo"},
	{"شوبار", "chopard"},
	{"بوشرون", "boucheron"},
	{"روبيرتو كفالي", "roberto cavalli"},
	{"روبرتو كافالي", "roberto cavalli"},
	{"هيرميس", "hermes"},
	{"ارميس", "hermes"},
	{"هرمز", "hermes"},
	{"كيليان", "kilian"},
	{"كليان", "kilian"},
	{"نيشاني", "nishane"},
	{"نيشان", "nishane"},
	{"زيرجوفف", "xerjoff"},
	{"زيرجوف", "xerjoff"},
	{"بنهاليغونز", "penhaligons"},
	{"بنهاليغون", "penhaligons"},
	{"دي مارلي", "marly"},
	{"مارلي", "marly"},
	{"جيرلان", "guerlain"},
	{"جرلان", "guerlain"},
	{"تيزيانا ترينزي", "tiziana terenzi"},
	{"تيزيانا", "tiziana terenzi"},
	{"ناسوماتو", "nasomatto"},
	{"ميزون مارجيلا", "maison margiela"},
	{"مارجيلا", "maison margiela"},
	{"ربليكا", "replica"},
	{"نيكولاي", "nicolai"},
	{"نيكولائي", "nicolai"},
	{"مايزون فرانسيس", "maison francis kurkdjian"},
	{"فرانسيس", "maison francis kurkdjian"},
	{"بايريدو", "byredo"},
	{"لي لابو", "le labo"},
	{"مانسيرا", "mancera"},
	{"مونتالي", "montale"},
	{"روجا", "roja"},
	{"ثمين", "thameen"},
	{"أمادو", "amadou"},
	{"امادو", "amadou"},
	{"انيشيو", "initio"},
	{"إنيشيو", "initio"},
	{"جيمي تشو", "jimmy choo"},
	{"جيميتشو", "jimmy choo"},
	{"لاليك", "lalique"},
	{"بوليس", "police"},
	{"فيكتور رولف", "viktor rolf"},
	{"فيكتور اند رولف", "viktor rolf"},
	{"كلوي", "chloe"},
	{"شلوي", "chloe"},
	{"بالنسياغا", "balenciaga"},
	{"بالنسياجا", "balenciaga"},
	{"ميو ميو", "miu miu"},
	{"استي لودر", "estee lauder"},
	{"استيلودر", "estee lauder"},
	{"كوتش", "coach"},
	{"مايكل كورس", "michael kors"},
	{"رالف لورين", "ralph lauren"},
	{"رالف لوران", "ralph lauren"},
	{"ايزي مياكي", "issey miyake"},
	{"ايسي مياكي", "issey miyake"},
	{"دافيدوف", "davidoff"},
	{"ديفيدوف", "davidoff"},
	{"دولشي اند غابانا", "dolce gabbana"},
	{"دولتشي", "dolce gabbana"},
	{"دولشي", "dolce gabbana"},
	{"جان بول غولتييه", "jean paul gaultier"},
	{"جان بول غوتييه", "jean paul gaultier"},
	{"غولتييه", "jean paul gaultier"},
	{"غولتيه", "jean paul gaultier"},
	{"غوتييه", "jean paul gaultier"},
	{"قوتييه", "jean paul gaultier"},
	{"قولتييه", "jean paul gaultier"},
	{"مونت بلانك", "montblanc"},
	{"مونتبلان", "montblanc"},
	{"تييري موجلر", "mugler"},
	{"موجلر", "mugler"},
	{"موغلر", "mugler"},
	{"كلوب دي نوي", "club de nuit"},
	{"كلوب دنوي", "club de nuit"},
	{"مايلستون", "milestone"},

	// Unit spellings. The spaced forms must run before the bare forms.
	{" مل", " ml"},
	{"ملي ", "ml "},
	{"ملي", "ml"},
	{"مل", "ml"},

	// Arabic letter-variant folding: hamza forms, taa marbuta, alef maqsura.
	{"أ", "ا"},
	{"إ", "ا"},
	{"آ", "ا"},
	{"ة", "ه"},
	{"ى", "ي"},
	{"ؤ", "و"},
	{"ئ", "ي"},
}
