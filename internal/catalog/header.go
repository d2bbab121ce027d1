package catalog

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Column header candidates, lowercase. Catalogs arrive with Arabic,
// English, or mixed headers depending on which POS system exported them.
var (
	nameHeaders = []string{
		"name", "product", "product name", "item", "item name", "description",
		"الاسم", "اسم", "اسم المنتج", "اسم العطر", "المنتج", "الصنف", "البيان",
	}
	priceHeaders = []string{
		"price", "sale price", "unit price", "amount",
		"السعر", "سعر", "سعر البيع", "القيمة",
	}
	idHeaders = []string{
		"id", "code", "sku", "barcode", "item code",
		"كود", "الكود", "رقم الصنف", "الرقم", "باركود",
	}
)

// columns maps catalog roles to column indexes. -1 means absent.
type columns struct {
	name  int
	price int
	id    int
}

// resolveColumns maps header cells to roles, falling back to content
// sniffing over the data rows when headers don't match any candidate.
// A catalog without a resolvable name column is unusable.
func resolveColumns(header []string, rows [][]string) (columns, error) {
	cols := columns{name: -1, price: -1, id: -1}

	for i, cell := range header {
		h := strings.ToLower(cleanCell(cell))
		if h == "" {
			continue
		}
		switch {
		case cols.name == -1 && matchesHeader(h, nameHeaders):
			cols.name = i
		case cols.price == -1 && matchesHeader(h, priceHeaders):
			cols.price = i
		case cols.id == -1 && matchesHeader(h, idHeaders):
			cols.id = i
		}
	}

	if cols.price == -1 {
		cols.price = sniffNumericColumn(rows, cols)
	}
	if cols.name == -1 {
		cols.name = sniffTextColumn(rows, cols)
	}

	if cols.name == -1 {
		return cols, eris.New("catalog: could not resolve a product name column")
	}
	return cols, nil
}

func matchesHeader(h string, candidates []string) bool {
	for _, c := range candidates {
		if h == c {
			return true
		}
	}
	return false
}

// sniffNumericColumn returns the leftmost unassigned column where at
// least 70% of non-empty values parse as plausible prices.
func sniffNumericColumn(rows [][]string, cols columns) int {
	width := rowWidth(rows)
	for i := 0; i < width; i++ {
		if i == cols.name || i == cols.id {
			continue
		}
		var total, numeric int
		for _, row := range rows {
			if i >= len(row) {
				continue
			}
			v := cleanCell(row[i])
			if v == "" {
				continue
			}
			total++
			if p, ok := parsePrice(v); ok && p > 0 {
				numeric++
			}
		}
		if total > 0 && float64(numeric)/float64(total) >= 0.7 {
			return i
		}
	}
	return -1
}

// sniffTextColumn returns the unassigned column with the longest average
// cell text, which in practice is always the product name.
func sniffTextColumn(rows [][]string, cols columns) int {
	width := rowWidth(rows)
	best, bestAvg := -1, 0.0
	for i := 0; i < width; i++ {
		if i == cols.price || i == cols.id {
			continue
		}
		var total, length int
		for _, row := range rows {
			if i >= len(row) {
				continue
			}
			v := cleanCell(row[i])
			if v == "" {
				continue
			}
			total++
			length += len([]rune(v))
		}
		if total == 0 {
			continue
		}
		if avg := float64(length) / float64(total); avg > bestAvg {
			best, bestAvg = i, avg
		}
	}
	return best
}

func rowWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// parsePrice parses a price cell, tolerating thousands separators and
// stray currency tokens. Values outside (0, 100000) are rejected.
func parsePrice(s string) (float64, bool) {
	s = strings.ReplaceAll(cleanCell(s), ",", "")
	if s == "" {
		return 0, false
	}
	if p, err := strconv.ParseFloat(s, 64); err == nil {
		if p > 0 && p < 100000 {
			return p, true
		}
		return 0, false
	}

	// Strip non-numeric runes and retry, for cells like "SAR 250" or "250 ر.س".
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	p, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || p <= 0 || p >= 100000 {
		return 0, false
	}
	return p, true
}
