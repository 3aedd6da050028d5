package chronicle

import "encoding/json"

// Conversion is a converted conversation.
type Conversion struct {
	Data   json.RawMessage // the converter's JSON document
	Output string          // the converter's stdout
}

// Result is one search hit. Optional fields are nil when the tool did not report them.
type Result struct {
	Number int
	Type   *string
	Order  *int
	Parent *int
	Text   string
}

// SearchResults holds the parsed hits and the tool's raw report.
type SearchResults struct {
	Results   []Result
	RawOutput string
}

// HealthStatus reports which tools are installed.
type HealthStatus struct {
	Status    string // always "ok"
	Converter bool
	Search    bool
	Ready     bool
	Message   string
}
