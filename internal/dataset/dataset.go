// Package dataset holds the immutable set of countries served by the API.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davegarvey/countries-api/internal/domain"
)

//go:embed countries.json
var embedded []byte

// ErrEmpty is returned when a source decodes to zero countries.
var ErrEmpty = errors.New("dataset is empty")

// Dataset is an ordered, read-only sequence of countries. It is safe for
// concurrent use because nothing mutates it after New returns.
type Dataset struct {
	countries []domain.Country
	byCode    map[string]int
}

// New builds a dataset from countries, keeping their order.
// Codes are indexed case-insensitively; on duplicates the first country wins.
func New(countries []domain.Country) *Dataset {
	d := &Dataset{
		countries: make([]domain.Country, len(countries)),
		byCode:    make(map[string]int, len(countries)*2),
	}
	copy(d.countries, countries)

	for i, c := range d.countries {
		for _, key := range []string{c.Code, c.Alpha3Code} {
			key = strings.ToUpper(key)
			if key == "" {
				continue
			}
			if _, exists := d.byCode[key]; !exists {
				d.byCode[key] = i
			}
		}
	}
	return d
}

// Parse decodes a JSON array of countries.
func Parse(r io.Reader) (*Dataset, error) {
	var countries []domain.Country
	if err := json.NewDecoder(r).Decode(&countries); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if len(countries) == 0 {
		return nil, ErrEmpty
	}
	return New(countries), nil
}

// LoadFile parses the dataset stored at path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Default returns the dataset compiled into the binary.
func Default() (*Dataset, error) {
	return Parse(bytes.NewReader(embedded))
}

// Countries returns the countries in dataset order. Callers must not modify
// the returned slice.
func (d *Dataset) Countries() []domain.Country {
	return d.countries
}

// Len returns the number of countries.
func (d *Dataset) Len() int {
	return len(d.countries)
}

// At returns the i-th country.
func (d *Dataset) At(i int) domain.Country {
	return d.countries[i]
}

// Lookup finds a country by its 2-letter or 3-letter code, ignoring case.
func (d *Dataset) Lookup(code string) (domain.Country, bool) {
	i, ok := d.byCode[strings.ToUpper(code)]
	if !ok {
		return domain.Country{}, false
	}
	return d.countries[i], true
}
