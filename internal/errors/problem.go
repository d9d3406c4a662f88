package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Domain sentinel errors. Services return these; the HTTP layer maps them
// to RFC 7807 responses via MapSearchError.
var (
	ErrNoCIKForTicker       = errors.New("no CIK found for ticker")
	ErrNoFilingsFound       = errors.New("no filings found")
	ErrNoCounselFound       = errors.New("no counsel found")
	ErrNoDocumentText       = errors.New("no document text")
	ErrReferenceUnavailable = errors.New("reference data unavailable")
	ErrDataFormat           = errors.New("reference data format invalid")
	ErrExtractionDisabled   = errors.New("extraction disabled: no API key configured")
	ErrRateLimited          = errors.New("rate limited")
	ErrNetworkError         = errors.New("network error")
	ErrStockLoanUnavailable = errors.New("stock loan feed unavailable")
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Additional fields for extensibility
	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON custom marshaler to include extensions
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{})

	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status

	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}

	for k, v := range pd.Extensions {
		data[k] = v
	}

	return json.Marshal(data)
}

// NewProblemDetails creates a new RFC 7807 compliant error
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	pd.Extensions[key] = value
	return pd
}

// MapSearchError maps domain errors from the search and reference services
// to HTTP problem details.
func MapSearchError(err error, traceID, instance string) *ProblemDetails {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return NewProblemDetails(
			apiErr.StatusCode,
			"/errors/"+apiErr.ErrorCode,
			http.StatusText(apiErr.StatusCode),
			apiErr.Message,
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", apiErr.ErrorCode)
	}

	switch {
	case errors.Is(err, ErrNoCIKForTicker):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeTickerNotFound,
			"Ticker Not Found",
			"The ticker was not found in the SEC company index.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "TICKER_NOT_FOUND")

	case errors.Is(err, ErrNoFilingsFound):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeNoFilings,
			"No Filings Found",
			"No relevant filings were found for the requested date range.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "NO_FILINGS_FOUND")

	case errors.Is(err, ErrNoCounselFound):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeNoFilings,
			"No Counsel Found",
			"Filings were processed but no external law firms or lawyers could be identified.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "NO_COUNSEL_FOUND")

	case errors.Is(err, ErrExtractionDisabled):
		return NewProblemDetails(
			http.StatusServiceUnavailable,
			TypeExtractionDisabled,
			"Extraction Unavailable",
			"Company counsel extraction requires an OpenAI API key. Set LCF_OPENAI_API_KEY and restart.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "EXTRACTION_DISABLED")

	case errors.Is(err, ErrReferenceUnavailable):
		return NewProblemDetails(
			http.StatusServiceUnavailable,
			TypeReferenceMissing,
			"Reference Data Unavailable",
			"No market capitalization reference file could be loaded.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "REFERENCE_UNAVAILABLE")

	case errors.Is(err, ErrDataFormat):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeDataFormat,
			"Reference Data Format Invalid",
			"The reference workbook does not match the expected column layout.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "DATA_FORMAT")

	case errors.Is(err, ErrStockLoanUnavailable):
		return NewProblemDetails(
			http.StatusBadGateway,
			TypeUpstream,
			"Stock Loan Feed Unavailable",
			"Unable to retrieve the stock loan availability feed.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "STOCK_LOAN_UNAVAILABLE")

	case errors.Is(err, ErrRateLimited):
		return NewProblemDetails(
			http.StatusTooManyRequests,
			TypeRateLimit,
			"Too Many Requests",
			"The upstream service is rate limiting requests. Please try again later.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "RATE_LIMITED").
			WithExtension("retry_after", 60)

	case errors.Is(err, ErrNetworkError):
		return NewProblemDetails(
			http.StatusBadGateway,
			TypeUpstream,
			"Network Error",
			"Unable to reach an upstream service. Please check connectivity.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "NETWORK_ERROR")

	default:
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred while processing your request.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "INTERNAL_ERROR")
	}
}

// WrapUpstream annotates an upstream failure while keeping the sentinel
// visible to errors.Is.
func WrapUpstream(service string, err error) error {
	return fmt.Errorf("%s: %w: %v", service, ErrNetworkError, err)
}
