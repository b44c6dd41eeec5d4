package configuration

// DefaultCompilerName is the compiler DefaultCompiler prefers when several
// are configured.
const DefaultCompilerName = "solc"

type CompilerProfile struct {
	// Version is handed to the compiler selection as written.
	Version string `json:"version" yaml:"version"`
}
