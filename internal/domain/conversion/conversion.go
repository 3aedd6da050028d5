package conversion

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain"
)

const (
	markdownExt = ".md"
	jsonExt     = ".json"

	fallbackFilename = "conversation.md"
)

// Request is a validated markdown-to-JSON conversion request.
type Request struct {
	content  string
	filename string
}

type input struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// New validates a conversion request. Both content and filename are required.
func New(content, filename string) (Request, error) {
	in := input{Content: content, Filename: filename}
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Filename, validation.Required),
	)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return Request{content: content, filename: filename}, nil
}

// Content returns the markdown text to convert.
func (r *Request) Content() string { return r.content }

// Filename returns the client-supplied file name.
func (r *Request) Filename() string { return r.filename }

// ScratchName reduces the client file name to a bare base name that cannot
// escape the scratch directory.
func (r *Request) ScratchName() string {
	name := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(r.filename, `\`, "/")))
	if name == "/" || name == "." || name == "" {
		return fallbackFilename
	}
	return name
}

// OutputPath derives the converter output path from its input path the way the
// converter names its default output: a trailing .md becomes .json, anything
// else gets .json appended.
func OutputPath(inputPath string) string {
	if strings.HasSuffix(inputPath, markdownExt) {
		return strings.TrimSuffix(inputPath, markdownExt) + jsonExt
	}
	return inputPath + jsonExt
}

// Result is the outcome of a successful conversion.
type Result struct {
	// Data is the converter's output document, validated as JSON but otherwise opaque.
	Data json.RawMessage
	// Output is the converter's captured standard output.
	Output string
}
