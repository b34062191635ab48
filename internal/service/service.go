package service

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/davegarvey/countries-api/internal/cache"
	"github.com/davegarvey/countries-api/internal/dataset"
	"github.com/davegarvey/countries-api/internal/domain"
)

// QueryService defines the interface the transport layer depends on.
type QueryService interface {
	Handle(ctx context.Context, req Request) (Result, error)
}

// Request is a transport-neutral description of an incoming call.
type Request struct {
	Method string
	// Path holds the non-empty path segments, e.g. ["countries", "FR", "flag"].
	Path  []string
	Query url.Values
}

// Result is a successful response. When PlainText is set, Payload is a string
// to be written verbatim; otherwise it is serialised as JSON.
type Result struct {
	Payload   any
	PlainText bool
}

const (
	keyRegions    = "regions"
	keySubregions = "subregions"
	keyCurrencies = "currencies"
	keyLanguages  = "languages"
)

// Service answers queries over an immutable dataset.
type Service struct {
	data   *dataset.Dataset
	picker Picker
	cache  cache.Cache
}

// New creates a query service over data. A nil picker falls back to the
// runtime random source and a nil cache to a fresh in-memory one.
func New(data *dataset.Dataset, picker Picker, c cache.Cache) *Service {
	if picker == nil {
		picker = NewRandomPicker()
	}
	if c == nil {
		c = cache.NewInMemoryCache()
	}
	return &Service{
		data:   data,
		picker: picker,
		cache:  c,
	}
}

// Handle dispatches req on its first path segment.
func (s *Service) Handle(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.Method != "" && req.Method != http.MethodGet {
		return Result{}, errEndpointNotFound
	}
	if len(req.Path) == 0 {
		return Result{}, errEndpointNotFound
	}

	if req.Path[0] == "countries" {
		return s.handleCountries(req)
	}
	if len(req.Path) != 1 {
		return Result{}, errEndpointNotFound
	}

	switch req.Path[0] {
	case "regions":
		return jsonResult(s.Regions()), nil
	case "subregions":
		return jsonResult(s.Subregions()), nil
	case "currencies":
		return jsonResult(s.Currencies()), nil
	case "languages":
		return jsonResult(s.Languages()), nil
	case "search":
		res, err := s.Search(req.Query.Get("q"))
		if err != nil {
			return Result{}, err
		}
		return jsonResult(res), nil
	case "stats":
		return jsonResult(s.Stats()), nil
	}
	return Result{}, errEndpointNotFound
}

func (s *Service) handleCountries(req Request) (Result, error) {
	path := req.Path
	switch {
	case len(path) == 1:
		return jsonResult(s.List(FilterFromQuery(req.Query))), nil
	case len(path) == 2 && path[1] == "random":
		c, err := s.Random()
		if err != nil {
			return Result{}, err
		}
		return jsonResult(c), nil
	case len(path) == 2:
		c, err := s.Lookup(path[1])
		if err != nil {
			return Result{}, err
		}
		return jsonResult(c), nil
	case len(path) == 3 && path[2] == "flag":
		flag, err := s.Flag(path[1])
		if err != nil {
			return Result{}, err
		}
		return Result{Payload: flag, PlainText: true}, nil
	case len(path) == 3 && path[2] == "neighbors":
		n, err := s.Neighbors(path[1])
		if err != nil {
			return Result{}, err
		}
		return jsonResult(n), nil
	}
	return Result{}, errEndpointNotFound
}

func jsonResult(v any) Result {
	return Result{Payload: v}
}

// Random returns a uniformly chosen country.
func (s *Service) Random() (domain.Country, error) {
	n := s.data.Len()
	if n == 0 {
		return domain.Country{}, errCountryNotFound
	}
	return s.data.At(s.picker.IntN(n)), nil
}

// Lookup finds a country by 2- or 3-letter code, ignoring case.
func (s *Service) Lookup(code string) (domain.Country, error) {
	c, found := s.data.Lookup(code)
	if !found {
		return domain.Country{}, errCountryNotFound
	}
	return c, nil
}

// Flag returns the flag glyph of the country identified by code.
func (s *Service) Flag(code string) (string, error) {
	c, err := s.Lookup(code)
	if err != nil {
		return "", err
	}
	return c.Flag, nil
}

// Neighbors lists the other countries in the same subregion as code.
func (s *Service) Neighbors(code string) (domain.Neighbors, error) {
	country, err := s.Lookup(code)
	if err != nil {
		return domain.Neighbors{}, err
	}

	neighbors := make([]domain.CountrySummary, 0)
	for _, c := range s.data.Countries() {
		if c.Subregion != country.Subregion || c.Code == country.Code {
			continue
		}
		neighbors = append(neighbors, domain.CountrySummary{Name: c.Name, Code: c.Code, Flag: c.Flag})
	}

	return domain.Neighbors{
		Country:   country.Name,
		Subregion: country.Subregion,
		Neighbors: neighbors,
	}, nil
}

// List returns the countries matching f in dataset order.
func (s *Service) List(f Filter) []domain.Country {
	return f.Apply(s.data.Countries())
}

// Search matches q against name or capital, case-insensitively.
func (s *Service) Search(q string) (domain.SearchResult, error) {
	if q == "" {
		return domain.SearchResult{}, errQueryRequired
	}

	needle := strings.ToLower(q)
	results := make([]domain.Country, 0)
	for _, c := range s.data.Countries() {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Capital), needle) {
			results = append(results, c)
		}
	}

	return domain.SearchResult{
		Query:   q,
		Count:   len(results),
		Results: results,
	}, nil
}

// Stats aggregates the full dataset. It is recomputed on every call.
func (s *Service) Stats() domain.Stats {
	return computeStats(s.data.Countries())
}

// Regions returns the sorted distinct regions.
func (s *Service) Regions() []string {
	return s.distinct(keyRegions, func(c domain.Country) []string { return []string{c.Region} })
}

// Subregions returns the sorted distinct subregions.
func (s *Service) Subregions() []string {
	return s.distinct(keySubregions, func(c domain.Country) []string { return []string{c.Subregion} })
}

// Currencies returns the sorted distinct currency codes.
func (s *Service) Currencies() []string {
	return s.distinct(keyCurrencies, func(c domain.Country) []string { return []string{c.Currency} })
}

// Languages returns the sorted distinct languages across all countries.
func (s *Service) Languages() []string {
	return s.distinct(keyLanguages, func(c domain.Country) []string { return c.Languages })
}

func (s *Service) distinct(key string, pick func(domain.Country) []string) []string {
	v := s.cache.GetOrCompute(key, func() any {
		return distinct(s.data.Countries(), pick)
	})
	values, _ := v.([]string)
	return slices.Clone(values)
}
