package health

import "context"

// Status is the liveness status of the gateway process itself.
type Status string

// Healthy is reported whenever the process can answer; tool availability is
// reported separately and never changes it.
const Healthy Status = "ok"

const (
	readyMessage    = "Server ready"
	notReadyMessage = "C tools not found"
)

// Report aggregates tool presence checks.
type Report struct {
	Status    Status
	Converter bool
	Search    bool
}

// Ready reports whether both tools are installed.
func (r Report) Ready() bool { return r.Converter && r.Search }

// Message returns a human-readable summary for clients.
func (r Report) Message() string {
	if r.Ready() {
		return readyMessage
	}
	return notReadyMessage
}

// Service checks the presence of the external tools.
type Service struct {
	prober        ToolProber
	converterPath string
	searchPath    string
}

// New creates a Service.
func New(prober ToolProber, converterPath, searchPath string) *Service {
	return &Service{prober: prober, converterPath: converterPath, searchPath: searchPath}
}

// Check stats both tool paths. It never runs either tool.
func (s *Service) Check(_ context.Context) Report {
	return Report{
		Status:    Healthy,
		Converter: s.prober.Present(s.converterPath),
		Search:    s.prober.Present(s.searchPath),
	}
}
