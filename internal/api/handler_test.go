package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davegarvey/countries-api/internal/domain"
	"github.com/davegarvey/countries-api/internal/service"
)

// Mock for service.QueryService
type MockQueryService struct {
	HandleFunc func(ctx context.Context, req service.Request) (service.Result, error)
}

func (m *MockQueryService) Handle(ctx context.Context, req service.Request) (service.Result, error) {
	return m.HandleFunc(ctx, req)
}

// Helper to test response write errors
type failingResponseWriter struct {
	httptest.ResponseRecorder
}

func (w *failingResponseWriter) Write(b []byte) (int, error) {
	return 0, errors.New("intentional write error")
}

func TestServeQuery_PassesRequestToService(t *testing.T) {
	var got service.Request
	mockService := &MockQueryService{
		HandleFunc: func(ctx context.Context, req service.Request) (service.Result, error) {
			got = req
			return service.Result{Payload: []string{"Europe"}}, nil
		},
	}

	handler := NewCountryHandler(mockService, nil)
	req := httptest.NewRequest(http.MethodGet, "/countries//FR/neighbors/?region=Europe&limit=2", nil)
	rr := httptest.NewRecorder()

	handler.ServeQuery(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, []string{"countries", "FR", "neighbors"}, got.Path)
	assert.Equal(t, "Europe", got.Query.Get("region"))
	assert.Equal(t, "2", got.Query.Get("limit"))
}

func TestServeQuery_JSONIsIndented(t *testing.T) {
	mockCountry := domain.Country{Name: "Japan", Code: "JP", Capital: "Tokyo", Currency: "JPY", Population: 125700000, Languages: []string{"Japanese"}}
	mockService := &MockQueryService{
		HandleFunc: func(ctx context.Context, req service.Request) (service.Result, error) {
			return service.Result{Payload: mockCountry}, nil
		},
	}

	handler := NewCountryHandler(mockService, nil)
	rr := httptest.NewRecorder()
	handler.ServeQuery(rr, httptest.NewRequest(http.MethodGet, "/countries/JP", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "{\n  \"name\": \"Japan\""), rr.Body.String())

	var respCountry domain.Country
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &respCountry))
	assert.Equal(t, mockCountry, respCountry)
}

func TestServeQuery_PlainText(t *testing.T) {
	mockService := &MockQueryService{
		HandleFunc: func(ctx context.Context, req service.Request) (service.Result, error) {
			return service.Result{Payload: "🇺🇸", PlainText: true}, nil
		},
	}

	handler := NewCountryHandler(mockService, nil)
	rr := httptest.NewRecorder()
	handler.ServeQuery(rr, httptest.NewRequest(http.MethodGet, "/countries/US/flag", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "🇺🇸", rr.Body.String())
}

func TestServeQuery_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   errorResponse
	}{
		{"not found", service.NotFound("Country not found"), http.StatusNotFound, errorResponse{Error: "Country not found"}},
		{"bad request", service.BadRequest(`Query parameter "q" is required`), http.StatusBadRequest, errorResponse{Error: `Query parameter "q" is required`}},
		{"with detail", &service.QueryError{Kind: service.KindNotFound, Message: "Endpoint not found", Detail: "Try GET / for API documentation"}, http.StatusNotFound, errorResponse{Error: "Endpoint not found", Message: "Try GET / for API documentation"}},
		{"unclassified", errors.New("internal server issue"), http.StatusNotFound, errorResponse{Error: "Endpoint not found"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockQueryService{
				HandleFunc: func(ctx context.Context, req service.Request) (service.Result, error) {
					return service.Result{}, tc.err
				},
			}

			handler := NewCountryHandler(mockService, nil)
			rr := httptest.NewRecorder()
			handler.ServeQuery(rr, httptest.NewRequest(http.MethodGet, "/anything", nil))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.expectedBody, body)
		})
	}
}

func TestServeQuery_EncodeError(t *testing.T) {
	mockService := &MockQueryService{
		HandleFunc: func(ctx context.Context, req service.Request) (service.Result, error) {
			return service.Result{Payload: map[string]any{"bad": make(chan int)}}, nil
		},
	}

	handler := NewCountryHandler(mockService, nil)
	rr := httptest.NewRecorder()
	handler.ServeQuery(rr, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to encode response")
}

func TestServeQuery_WriteError(t *testing.T) {
	mockService := &MockQueryService{
		HandleFunc: func(ctx context.Context, req service.Request) (service.Result, error) {
			return service.Result{Payload: domain.Country{Name: "Test"}}, nil
		},
	}

	handler := NewCountryHandler(mockService, nil)
	rr := &failingResponseWriter{*httptest.NewRecorder()}

	handler.ServeQuery(rr, httptest.NewRequest(http.MethodGet, "/countries/TT", nil))

	// The header is written before the body, so the status should be OK.
	assert.Equal(t, http.StatusOK, rr.Code)
}
