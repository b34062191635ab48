package domain

// Country is a single record of the dataset we serve.
type Country struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Alpha3Code  string   `json:"alpha3Code"`
	Capital     string   `json:"capital"`
	Region      string   `json:"region"`
	Subregion   string   `json:"subregion"`
	Population  int64    `json:"population"`
	Languages   []string `json:"languages"`
	Currency    string   `json:"currency"`
	Flag        string   `json:"flag"`
	CallingCode string   `json:"callingCode"`
}

// CountrySummary is the reduced form used in neighbour listings.
type CountrySummary struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

// Neighbors lists the countries sharing a subregion with Country.
type Neighbors struct {
	Country   string           `json:"country"`
	Subregion string           `json:"subregion"`
	Neighbors []CountrySummary `json:"neighbors"`
}

// SearchResult is the response body of a free-text search.
type SearchResult struct {
	Query   string    `json:"query"`
	Count   int       `json:"count"`
	Results []Country `json:"results"`
}

// Stats aggregates the whole dataset.
type Stats struct {
	TotalCountries       int            `json:"totalCountries"`
	TotalPopulation      int64          `json:"totalPopulation"`
	Regions              int            `json:"regions"`
	Subregions           int            `json:"subregions"`
	Currencies           int            `json:"currencies"`
	Languages            int            `json:"languages"`
	CountriesByRegion    map[string]int `json:"countriesByRegion"`
	MostPopulousCountry  *Country       `json:"mostPopulousCountry"`
	LeastPopulousCountry *Country       `json:"leastPopulousCountry"`
}
