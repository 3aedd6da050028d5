package health

// ToolProber checks whether an external tool is installed.
type ToolProber interface {
	Present(path string) bool
}
