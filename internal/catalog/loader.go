package catalog

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Load reads a catalog file, dispatching on extension. Supported formats
// are CSV (UTF-8 or Windows-1256) and XLSX.
func Load(path, name string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path, name)
	case ".xlsx":
		return loadXLSX(path, name)
	default:
		return nil, eris.Errorf("catalog: unsupported file type %q", filepath.Ext(path))
	}
}

func loadCSV(path, name string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read csv")
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	// Legacy POS exports are often Windows-1256. Anything that isn't
	// valid UTF-8 gets decoded as such.
	if !utf8.Valid(raw) {
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), charmap.Windows1256.NewDecoder()))
		if err != nil {
			return nil, eris.Wrap(err, "catalog: decode windows-1256")
		}
		raw = decoded
		zap.L().Debug("decoded catalog as windows-1256", zap.String("path", path))
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "catalog: read csv row")
		}
		rows = append(rows, record)
	}

	return build(rows, name, path)
}

func loadXLSX(path, name string) (*Catalog, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("catalog: xlsx file has no sheets")
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}

	return build(rows, name, path)
}

// build resolves columns and converts raw rows into a Catalog.
func build(rows [][]string, name, path string) (*Catalog, error) {
	// Skip leading blank rows before treating the next row as the header.
	start := 0
	for start < len(rows) && blankRow(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, eris.Errorf("catalog: %s is empty", path)
	}

	header := rows[start]
	data := rows[start+1:]

	cols, err := resolveColumns(header, data)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: %s", path)
	}

	cat := &Catalog{Name: name, Items: make([]Item, 0, len(data))}
	for i, row := range data {
		if blankRow(row) {
			continue
		}
		item := Item{Row: start + i + 2}
		if cols.name < len(row) {
			item.Name = cleanCell(row[cols.name])
		}
		if item.Name == "" {
			continue
		}
		if cols.id >= 0 && cols.id < len(row) {
			item.ID = cleanCell(row[cols.id])
		}
		if cols.price >= 0 && cols.price < len(row) {
			if p, ok := parsePrice(row[cols.price]); ok {
				item.Price = p
			}
		}
		cat.Items = append(cat.Items, item)
	}

	zap.L().Info("loaded catalog",
		zap.String("name", name),
		zap.String("path", path),
		zap.Int("items", len(cat.Items)),
		zap.Bool("has_prices", cat.HasPrices()),
	)
	return cat, nil
}
