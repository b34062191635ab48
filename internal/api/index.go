package api

import (
	"net/http"

	"go.uber.org/zap"
)

type endpoint struct {
	Path        string `json:"path"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
}

type indexResponse struct {
	Name      string     `json:"name"`
	Countries int        `json:"countries"`
	Fields    []string   `json:"fields"`
	Endpoints []endpoint `json:"endpoints"`
}

var endpoints = []endpoint{
	{"GET /countries", "All countries, optionally filtered by region, subregion, currency, language and limit", "/countries?region=Europe&limit=5"},
	{"GET /countries/{code}", "A country by 2- or 3-letter code", "/countries/US"},
	{"GET /countries/random", "A random country", "/countries/random"},
	{"GET /countries/{code}/flag", "The flag emoji as plain text", "/countries/US/flag"},
	{"GET /countries/{code}/neighbors", "Countries in the same subregion", "/countries/FR/neighbors"},
	{"GET /regions", "All distinct regions", "/regions"},
	{"GET /subregions", "All distinct subregions", "/subregions"},
	{"GET /currencies", "All distinct currency codes", "/currencies"},
	{"GET /languages", "All distinct languages", "/languages"},
	{"GET /search?q={query}", "Countries whose name or capital contains the query", "/search?q=united"},
	{"GET /stats", "Global statistics", "/stats"},
}

var countryFields = []string{"name", "code", "alpha3Code", "capital", "region", "subregion", "population", "languages", "currency", "flag", "callingCode"}

// IndexHandler describes the API at the root path.
type IndexHandler struct {
	datasetSize int
	logger      *zap.Logger
}

// NewIndexHandler creates the documentation handler.
func NewIndexHandler(datasetSize int, logger *zap.Logger) *IndexHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexHandler{datasetSize: datasetSize, logger: logger}
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, indexResponse{
		Name:      "Countries API",
		Countries: h.datasetSize,
		Fields:    countryFields,
		Endpoints: endpoints,
	}, h.logger)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
