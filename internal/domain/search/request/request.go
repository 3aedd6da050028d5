package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain"
)

// DefaultLimit is the result limit used when the client sends none.
const DefaultLimit = 10

// Options tune a search run.
type Options struct {
	// Limit caps the number of results; 0 means the tool's own default.
	Limit int
	// CaseSensitive is accepted for client compatibility; the search tool's
	// command line has no case flag, so it is recorded but not forwarded.
	CaseSensitive bool
}

// Request is a validated search over a converted conversation document.
type Request struct {
	term     string
	document json.RawMessage
	options  Options
}

type input struct {
	SearchTerm string          `json:"searchTerm"`
	JSONData   json.RawMessage `json:"jsonData"`
}

var errFalsyDocument = validation.NewError("validation_is_falsy", "must not be null, false, 0 or empty")

// New validates a search request. limit==nil selects defaultLimit (DefaultLimit when
// defaultLimit <= 0); negative limits are clamped to 0. The document is compacted
// so the scratch file holds a single-line JSON value.
func New(term string, document json.RawMessage, limit *int, caseSensitive bool, defaultLimit int) (Request, error) {
	in := input{SearchTerm: term, JSONData: document}
	err := validation.ValidateStruct(&in,
		validation.Field(&in.SearchTerm, validation.Required),
		validation.Field(&in.JSONData, validation.Required, validation.By(notFalsy)),
	)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, document); err != nil {
		return Request{}, fmt.Errorf("%w: jsonData: %w", domain.ErrValidation, err)
	}

	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	l := defaultLimit
	if limit != nil {
		l = max(*limit, 0)
	}

	return Request{
		term:     term,
		document: compact.Bytes(),
		options:  Options{Limit: l, CaseSensitive: caseSensitive},
	}, nil
}

// notFalsy rejects JSON values a browser client would treat as "no data".
func notFalsy(value any) error {
	raw, ok := value.(json.RawMessage)
	if !ok {
		return errors.New("must be raw JSON")
	}
	text := string(bytes.TrimSpace(raw))
	switch text {
	case "", "null", "false", `""`:
		return errFalsyDocument
	}
	if isZeroNumber(text) {
		return errFalsyDocument
	}
	return nil
}

// isZeroNumber reports whether text is a JSON number equal to zero in any
// spelling (0, -0, 0.0, 0e5). Values that underflow to zero count as zero.
func isZeroNumber(text string) bool {
	if text == "" || (text[0] != '-' && (text[0] < '0' || text[0] > '9')) {
		return false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return false
	}
	return f == 0
}

// Term returns the search term.
func (r *Request) Term() string { return r.term }

// Document returns the compacted JSON document to search.
func (r *Request) Document() json.RawMessage { return r.document }

// Options returns the search options.
func (r *Request) Options() Options { return r.options }

// Args builds the search tool's argument vector: an optional "-l <limit>" pair
// followed by the term and the document path.
func (r *Request) Args(documentPath string) []string {
	args := make([]string, 0, 4)
	if r.options.Limit > 0 {
		args = append(args, "-l", fmt.Sprint(r.options.Limit))
	}
	return append(args, r.term, documentPath)
}
