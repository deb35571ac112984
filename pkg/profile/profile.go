package profile

import "progbuild/go/pkg/platform"

// BuildProfile is the platform specific half of a compiler invocation.
type BuildProfile struct {
	Platform           platform.Key `json:"platform" toml:"platform"`
	Definitions        []string     `json:"definitions" toml:"definitions"`
	IncludePaths       []string     `json:"include_paths" toml:"include-paths"`
	Libraries          []string     `json:"libraries" toml:"libraries"`
	ExtraCompilerFlags []string     `json:"extra_compiler_flags" toml:"extra-compiler-flags,omitempty"`
	ExecutableSuffix   string       `json:"executable_suffix" toml:"executable-suffix,omitempty"`

	// Supported is false only for the Unknown platform. Callers must refuse
	// to build with an unsupported profile.
	Supported bool `json:"supported" toml:"supported"`
}

// OutputName is the executable file name produced for base on this platform.
func (p BuildProfile) OutputName(base string) string {
	return base + p.ExecutableSuffix
}

func (p BuildProfile) clone() BuildProfile {
	p.Definitions = cloneStrings(p.Definitions)
	p.IncludePaths = cloneStrings(p.IncludePaths)
	p.Libraries = cloneStrings(p.Libraries)
	p.ExtraCompilerFlags = cloneStrings(p.ExtraCompilerFlags)
	return p
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

var registry = map[platform.Key]BuildProfile{
	platform.Linux: {
		Platform:     platform.Linux,
		Definitions:  []string{"LINUX"},
		IncludePaths: []string{"./include/", "./../common/thirdparty/glm/"},
		Libraries:    []string{"-lSDL2", "-ldl"},
		Supported:    true,
	},
	platform.Darwin: {
		Platform:     platform.Darwin,
		Definitions:  []string{"MAC"},
		IncludePaths: []string{"./include/", "/Library/Frameworks/SDL2.framework/Headers", "./../common/thirdparty/old/glm"},
		Libraries:    []string{"-F/Library/Frameworks", "-framework", "SDL2"},
		Supported:    true,
	},
	platform.Windows: {
		Platform:           platform.Windows,
		Definitions:        []string{"MINGW"},
		IncludePaths:       []string{"./include/", "./../common/thirdparty/old/glm/"},
		Libraries:          []string{"-lmingw32", "-lSDL2main", "-lSDL2", "-mwindows"},
		ExtraCompilerFlags: []string{"-static-libgcc", "-static-libstdc++"},
		ExecutableSuffix:   ".exe",
		Supported:          true,
	},
}

// supportedOrder fixes the listing order for Keys.
var supportedOrder = []platform.Key{platform.Linux, platform.Darwin, platform.Windows}

// Lookup returns the profile for key. Unregistered keys get an empty,
// unsupported profile rather than a best guess.
func Lookup(key platform.Key) BuildProfile {
	p, ok := registry[key]
	if !ok {
		return BuildProfile{Platform: platform.Unknown}
	}
	return p.clone()
}

// Keys lists the platforms that have a supported profile.
func Keys() []platform.Key {
	return append([]platform.Key(nil), supportedOrder...)
}

// All returns every supported profile in Keys order.
func All() []BuildProfile {
	profiles := make([]BuildProfile, 0, len(supportedOrder))
	for _, k := range supportedOrder {
		profiles = append(profiles, Lookup(k))
	}
	return profiles
}
