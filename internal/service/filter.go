package service

import (
	"net/url"
	"strings"

	"github.com/davegarvey/countries-api/internal/domain"
)

// Filter narrows the country list. Empty fields are ignored; Limit <= 0 means
// no truncation.
type Filter struct {
	Region    string
	Subregion string
	Currency  string
	Language  string
	Limit     int
}

// FilterFromQuery reads the list filters from query parameters.
func FilterFromQuery(q url.Values) Filter {
	return Filter{
		Region:    q.Get("region"),
		Subregion: q.Get("subregion"),
		Currency:  q.Get("currency"),
		Language:  q.Get("language"),
		Limit:     parseLimit(q.Get("limit")),
	}
}

// Apply runs the filters in fixed order: region, subregion, currency,
// language, then limit. The input slice is never modified and the
// relative order of countries is preserved.
func (f Filter) Apply(countries []domain.Country) []domain.Country {
	result := make([]domain.Country, 0, len(countries))
	for _, c := range countries {
		if f.matches(c) {
			result = append(result, c)
		}
	}

	if f.Limit > 0 && f.Limit < len(result) {
		result = result[:f.Limit]
	}
	return result
}

func (f Filter) matches(c domain.Country) bool {
	if f.Region != "" && !strings.EqualFold(c.Region, f.Region) {
		return false
	}
	if f.Subregion != "" && !containsFold(c.Subregion, f.Subregion) {
		return false
	}
	if f.Currency != "" && !strings.EqualFold(c.Currency, f.Currency) {
		return false
	}
	if f.Language != "" {
		for _, lang := range c.Languages {
			if containsFold(lang, f.Language) {
				return true
			}
		}
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// parseLimit reads the leading integer of s the way a lenient client would:
// surrounding whitespace and an optional sign are accepted, and parsing stops
// at the first non-digit ("5abc" is 5). Anything without leading digits
// yields 0.
func parseLimit(s string) int {
	s = strings.TrimSpace(s)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	const maxLimit = 1 << 30
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n < maxLimit {
			n = n*10 + int(s[i]-'0')
		}
	}
	if negative {
		return -n
	}
	return n
}
