package compose

// CommonConfig holds the settings shared by every platform.
type CommonConfig struct {
	CompilerPath  string
	CompilerFlags []string

	// SourceGlob is expanded with doublestar syntax relative to Dir.
	// It is ignored when SourceFiles is set.
	SourceGlob  string
	SourceFiles []string

	// ExcludePatterns drop glob matches (slash separated, relative to Dir).
	ExcludePatterns []string

	BaseExecutableName string

	// Dir is the directory sources are resolved against. Empty means the
	// current working directory.
	Dir string
}

// DefaultCommonConfig returns the settings the SDL2 demo project is built with.
func DefaultCommonConfig() CommonConfig {
	return CommonConfig{
		CompilerPath:       "g++",
		CompilerFlags:      []string{"-g", "-std=c++17"},
		SourceGlob:         "./src/*.cpp",
		BaseExecutableName: "prog",
	}
}
