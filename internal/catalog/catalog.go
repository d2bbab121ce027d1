// Package catalog loads product catalogs from CSV and XLSX files and
// resolves their bilingual column layouts.
package catalog

import "strings"

// Item is one product row from a catalog.
type Item struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
	// Row is the 1-based source row, for diagnostics.
	Row int `json:"row,omitempty"`
}

// Catalog is a named list of items in file order.
type Catalog struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// HasPrices reports whether any item carries a price. Catalogs without
// prices still participate in matching; only the price comparison is
// skipped downstream.
func (c *Catalog) HasPrices() bool {
	for _, it := range c.Items {
		if it.Price > 0 {
			return true
		}
	}
	return false
}

// cleanCell trims whitespace and a UTF-8 BOM from a cell value.
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimSpace(s)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if cleanCell(c) != "" {
			return false
		}
	}
	return true
}
