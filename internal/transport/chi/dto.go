package chi

import (
	"encoding/json"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/health"
)

// --- Requests ---

type convertRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

type searchRequest struct {
	SearchTerm string          `json:"searchTerm"`
	JSONData   json.RawMessage `json:"jsonData"`
	Options    *searchOptions  `json:"options,omitempty"`
}

type searchOptions struct {
	Limit         *int `json:"limit,omitempty"`
	CaseSensitive bool `json:"caseSensitive,omitempty"`
}

// --- Responses ---

type errorResponse struct {
	Error string `json:"error"`
}

type healthTools struct {
	Converter bool `json:"md2json"`
	Search    bool `json:"aiquery"`
	Ready     bool `json:"ready"`
}

type healthResponse struct {
	Status  string      `json:"status"`
	Tools   healthTools `json:"tools"`
	Message string      `json:"message"`
}

type convertResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Output  string          `json:"output"`
}

type searchRecord struct {
	Number int     `json:"number"`
	Type   *string `json:"type"`
	Order  *int    `json:"order"`
	Parent *int    `json:"parent"`
	Text   string  `json:"text"`
}

type searchResponse struct {
	Success   bool           `json:"success"`
	Results   []searchRecord `json:"results"`
	RawOutput string         `json:"raw_output"`
}

// toolFailureResponse reports a tool that ran but did not succeed.
type toolFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Stderr  string `json:"stderr"`
	Code    int    `json:"code"`
}

type outputFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func healthToDTO(r healthuc.Report) healthResponse {
	return healthResponse{
		Status: string(r.Status),
		Tools: healthTools{
			Converter: r.Converter,
			Search:    r.Search,
			Ready:     r.Ready(),
		},
		Message: r.Message(),
	}
}

func recordsToDTO(records []result.Record) []searchRecord {
	out := make([]searchRecord, len(records))
	for i, r := range records {
		out[i] = searchRecord{
			Number: r.Number,
			Type:   r.Type,
			Order:  r.Order,
			Parent: r.Parent,
			Text:   r.Text,
		}
	}
	return out
}
