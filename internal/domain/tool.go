package domain

// ToolResult is the outcome of an external tool run that started successfully.
// A non-zero ExitCode is a normal, reportable outcome rather than an error.
type ToolResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the tool exited with code 0.
func (r ToolResult) Succeeded() bool { return r.ExitCode == 0 }
