package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"progbuild/go/pkg/logbowl"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeCompilerEnv = "PROGBUILD_FAKE_COMPILER"

// TestFakeCompiler is re-executed as the compiler by the build tests. It
// writes the -o target into the working directory and exits with the code
// in PROGBUILD_FAKE_COMPILER.
func TestFakeCompiler(t *testing.T) {
	mode := os.Getenv(fakeCompilerEnv)
	if mode == "" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	code, _ := strconv.Atoi(mode)
	if code != 0 {
		os.Stderr.WriteString("fake: error: compilation terminated.\n")
		os.Exit(code)
	}
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			os.WriteFile(args[i+1], []byte("binary"), 0755)
		}
	}
	os.Stdout.WriteString("fake: " + strings.Join(args[1:], " ") + "\n")
	os.Exit(0)
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace([]string{})
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv(CompilerEnvVar, "")
	t.Setenv(logbowl.LogFormatEnvVar, "text")
	resetFlags(rootCmd.Flags())
	resetFlags(profilesCmd.Flags())
	log = logbowl.Logger{}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	code = run()
	return out.String(), errOut.String(), code
}

func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0755))
	for _, name := range []string{"main.cpp", "Camera.cpp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", name), []byte("// "+name+"\n"), 0644))
	}
	return dir
}

func TestDryRunLinux(t *testing.T) {
	stdout, _, code := execute(t, "--platform", "linux", "--file", "a.cpp", "--dry-run")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Compiling on: Linux")
	assert.Contains(t, stdout, "g++ -g -std=c++17 -D LINUX a.cpp -o prog -I ./include/ -I ./../common/thirdparty/glm/ -lSDL2 -ldl")
}

func TestDryRunWindowsExpandsGlob(t *testing.T) {
	dir := projectDir(t)
	stdout, _, code := execute(t, "-C", dir, "--platform", "Windows", "--dry-run", "--flag=-O2")
	require.Equal(t, 0, code)

	want := strings.Join([]string{
		"g++ -O2 -static-libgcc -static-libstdc++ -D MINGW",
		filepath.Join("src", "Camera.cpp"), filepath.Join("src", "main.cpp"),
		"-o prog.exe",
	}, " ")
	if filepath.Separator == '/' {
		assert.Contains(t, stdout, want)
	}
	assert.Contains(t, stdout, "-lmingw32 -lSDL2main -lSDL2 -mwindows")
}

func TestCompilerFromEnvironment(t *testing.T) {
	t.Setenv(CompilerEnvVar, "clang++")
	resetFlags(rootCmd.Flags())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--platform", "darwin", "--file", "a.cpp", "--dry-run"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetErr(nil); rootCmd.SetArgs(nil) })

	require.Equal(t, 0, run())
	assert.Contains(t, out.String(), "clang++ -g -std=c++17 -D MAC a.cpp -o prog")
}

func TestUnsupportedPlatformExitsOne(t *testing.T) {
	t.Setenv(fakeCompilerEnv, "0")
	dir := projectDir(t)

	_, stderr, code := execute(t, "-C", dir, "--platform", "unknown",
		"--compiler", os.Args[0], "--flag=-test.run=TestFakeCompiler", "--flag=--")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unsupported platform")
	assert.NoFileExists(t, filepath.Join(dir, "prog"), "the compiler must never run")
}

func TestBadPlatformFlag(t *testing.T) {
	_, stderr, code := execute(t, "--platform", "amiga", "--dry-run")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Bad --platform value")
}

func TestMissingCompilerExitsOne(t *testing.T) {
	dir := projectDir(t)

	_, stderr, code := execute(t, "-C", dir, "--platform", "linux", "--compiler", filepath.Join(dir, "no-such-g++"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "spawn failure")
	assert.NoFileExists(t, filepath.Join(dir, "prog"))
}

func TestBuildWithFakeCompiler(t *testing.T) {
	t.Setenv(fakeCompilerEnv, "0")
	dir := projectDir(t)

	stdout, _, code := execute(t, "-C", dir, "--platform", "linux",
		"--compiler", os.Args[0], "--flag=-test.run=TestFakeCompiler", "--flag=--")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Compiling on: Linux")
	assert.Contains(t, stdout, "fake: -D LINUX")
	assert.FileExists(t, filepath.Join(dir, "prog"))
}

func TestCompilerFailureExitsOne(t *testing.T) {
	t.Setenv(fakeCompilerEnv, "7")
	dir := projectDir(t)

	_, stderr, code := execute(t, "-C", dir, "--platform", "linux",
		"--compiler", os.Args[0], "--flag=-test.run=TestFakeCompiler", "--flag=--")
	assert.Equal(t, 1, code, "any compiler failure maps to exit code 1")
	assert.Contains(t, stderr, "fake: error: compilation terminated.")
	assert.Contains(t, stderr, "compilation failure")
	assert.NoFileExists(t, filepath.Join(dir, "prog"))
}

func TestNoSourcesExitsOne(t *testing.T) {
	_, stderr, code := execute(t, "-C", t.TempDir(), "--platform", "linux", "--dry-run")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no source files match")
}

func TestProfilesJSON(t *testing.T) {
	stdout, _, code := execute(t, "profiles", "--format", "json")
	require.Equal(t, 0, code)

	var doc profileDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Profiles, 3)
	assert.Equal(t, "windows", string(doc.Profiles[2].Platform))
	assert.Equal(t, ".exe", doc.Profiles[2].ExecutableSuffix)
	assert.True(t, doc.Profiles[0].Supported)
}

func TestProfilesTOML(t *testing.T) {
	stdout, _, code := execute(t, "profiles", "--format", "toml")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "[[profile]]")
	assert.Contains(t, stdout, `platform = "darwin"`)
	assert.Contains(t, stdout, `executable-suffix = ".exe"`)
	assert.Contains(t, stdout, "-framework")
}

func TestProfilesText(t *testing.T) {
	stdout, _, code := execute(t, "profiles")
	require.Equal(t, 0, code)
	for _, s := range []string{"Platform", "Linux", "Darwin", "Windows", "prog.exe", "-lSDL2 -ldl"} {
		assert.Contains(t, stdout, s)
	}
}

func TestProfilesUnknownFormat(t *testing.T) {
	_, stderr, code := execute(t, "profiles", "--format", "yaml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown format")
}

func TestVersion(t *testing.T) {
	stdout, _, code := execute(t, "version")
	require.Equal(t, 0, code)
	assert.Equal(t, "progbuild version dev (commit: none, built: unknown)\n", stdout)
}

func TestUnexpectedArgument(t *testing.T) {
	_, _, code := execute(t, "--dry-run", "extra")
	assert.Equal(t, 1, code)
}
