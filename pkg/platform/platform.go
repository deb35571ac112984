package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Key identifies the target platform a build profile is written for.
type Key string

const (
	Linux   Key = "linux"
	Darwin  Key = "darwin"
	Windows Key = "windows"
	Unknown Key = "unknown"
)

var displayNames = map[Key]string{
	Linux:   "Linux",
	Darwin:  "Darwin",
	Windows: "Windows",
	Unknown: "Unknown",
}

// DisplayName is the spelling used in the build banner.
func (k Key) DisplayName() string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return displayNames[Unknown]
}

func (k Key) String() string { return string(k) }

// Detect maps the host operating system to a Key. It never fails.
func Detect() Key {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a GOOS value to a Key; anything unrecognised is Unknown.
func FromGOOS(goos string) Key {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// Parse reads a user supplied platform name. Both the key names and the
// capitalised system names ("Linux", "Darwin", "Windows") are accepted.
func Parse(name string) (Key, error) {
	switch k := Key(strings.ToLower(strings.TrimSpace(name))); k {
	case Linux, Darwin, Windows, Unknown:
		return k, nil
	}
	return Unknown, fmt.Errorf("unrecognised platform %q", name)
}
