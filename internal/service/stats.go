package service

import (
	"sort"

	"github.com/davegarvey/countries-api/internal/domain"
)

func computeStats(countries []domain.Country) domain.Stats {
	stats := domain.Stats{
		TotalCountries:    len(countries),
		CountriesByRegion: make(map[string]int),
	}

	subregions := make(map[string]struct{})
	currencies := make(map[string]struct{})
	languages := make(map[string]struct{})

	for i := range countries {
		c := &countries[i]
		stats.TotalPopulation += c.Population
		stats.CountriesByRegion[c.Region]++
		subregions[c.Subregion] = struct{}{}
		currencies[c.Currency] = struct{}{}
		for _, lang := range c.Languages {
			languages[lang] = struct{}{}
		}

		// Strict comparisons keep the earliest country on ties.
		if stats.MostPopulousCountry == nil || c.Population > stats.MostPopulousCountry.Population {
			stats.MostPopulousCountry = c
		}
		if stats.LeastPopulousCountry == nil || c.Population < stats.LeastPopulousCountry.Population {
			stats.LeastPopulousCountry = c
		}
	}

	stats.Regions = len(stats.CountriesByRegion)
	stats.Subregions = len(subregions)
	stats.Currencies = len(currencies)
	stats.Languages = len(languages)

	if stats.MostPopulousCountry != nil {
		most, least := *stats.MostPopulousCountry, *stats.LeastPopulousCountry
		stats.MostPopulousCountry, stats.LeastPopulousCountry = &most, &least
	}
	return stats
}

// distinct returns the sorted set of values produced by pick over countries.
func distinct(countries []domain.Country, pick func(domain.Country) []string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, c := range countries {
		for _, v := range pick(c) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}
