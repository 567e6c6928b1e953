package reference

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/okian/prizeboard/internal/domain/model"
)

//go:embed countries.csv
var countriesCSV []byte

// DefaultCountries parses the embedded ISO-3166 table.
func DefaultCountries() ([]model.Country, error) {
	return ParseCountries(bytes.NewReader(countriesCSV))
}

var countryColumns = map[string]string{
	"alpha2":      "alpha2",
	"alpha2code":  "alpha2",
	"iso2":        "alpha2",
	"countrycode": "alpha2",
	"alpha3":      "alpha3",
	"alpha3code":  "alpha3",
	"iso3":        "alpha3",
	"name":        "name",
	"country":     "name",
	"countryname": "name",
	"continent":   "continent",
	"region":      "continent",
}

// ParseCountries reads a country table with a header row. Columns are matched
// by name, so order and extra columns do not matter.
func ParseCountries(r io.Reader) ([]model.Country, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read country header: %v", ErrInvalidReference, err)
	}
	idx := map[string]int{}
	for i, h := range header {
		if col, ok := countryColumns[normalizeHeader(h)]; ok {
			if _, dup := idx[col]; !dup {
				idx[col] = i
			}
		}
	}
	if _, ok := idx["alpha3"]; !ok {
		return nil, fmt.Errorf("%w: country table has no alpha-3 column", ErrInvalidReference)
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []model.Country
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read country row: %v", ErrInvalidReference, err)
		}
		out = append(out, model.Country{
			Alpha2:    cell(row, "alpha2"),
			Alpha3:    cell(row, "alpha3"),
			Name:      cell(row, "name"),
			Continent: cell(row, "continent"),
		})
	}
	return out, nil
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.TrimPrefix(h, "\ufeff") {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
