package compose

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"progbuild/go/pkg/builderr"
	"progbuild/go/pkg/profile"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kballard/go-shellquote"
)

const op = "compose"

// Command is a composed compiler argument vector. It is immutable; Args
// hands out copies.
type Command struct {
	args []string
}

// NewCommand builds a Command from an explicit argument vector.
func NewCommand(args ...string) Command {
	return Command{args: append([]string(nil), args...)}
}

// Path is the program to execute (args[0]).
func (c Command) Path() string {
	if len(c.args) == 0 {
		return ""
	}
	return c.args[0]
}

// Args returns a copy of the full vector, program included.
func (c Command) Args() []string {
	return append([]string(nil), c.args...)
}

func (c Command) Len() int { return len(c.args) }

// String renders the vector as a shell-quoted line for display only.
func (c Command) String() string {
	return shellquote.Join(c.args...)
}

// Compose merges common settings with a platform profile into one argument
// vector:
//
//	compiler, common flags, extra flags, -D defs, sources, -o out, -I dirs, libraries
//
// Neither input is modified.
func Compose(common CommonConfig, p profile.BuildProfile) (Command, error) {
	if !p.Supported {
		return Command{}, builderr.Errorf(builderr.UnsupportedPlatform, op, "no build profile for platform %q", p.Platform)
	}
	if strings.TrimSpace(common.CompilerPath) == "" {
		return Command{}, builderr.Errorf(builderr.InvalidConfig, op, "compiler path is empty")
	}
	if strings.TrimSpace(common.BaseExecutableName) == "" {
		return Command{}, builderr.Errorf(builderr.InvalidConfig, op, "executable name is empty")
	}

	sources, err := ResolveSources(common)
	if err != nil {
		return Command{}, err
	}

	args := make([]string, 0, 3+len(common.CompilerFlags)+len(p.ExtraCompilerFlags)+
		2*len(p.Definitions)+len(sources)+2*len(p.IncludePaths)+len(p.Libraries))
	args = append(args, common.CompilerPath)
	args = append(args, common.CompilerFlags...)
	args = append(args, p.ExtraCompilerFlags...)
	for _, def := range p.Definitions {
		args = append(args, "-D", def)
	}
	args = append(args, sources...)
	args = append(args, "-o", p.OutputName(common.BaseExecutableName))
	for _, dir := range p.IncludePaths {
		args = append(args, "-I", dir)
	}
	args = append(args, p.Libraries...)
	return Command{args: args}, nil
}

// ResolveSources returns the concrete source list for common: SourceFiles
// verbatim when set, otherwise the sorted expansion of SourceGlob minus
// anything matching ExcludePatterns. Like a shell glob, wildcards skip
// names starting with a dot unless the pattern spells the dot out.
func ResolveSources(common CommonConfig) ([]string, error) {
	if len(common.SourceFiles) > 0 {
		return append([]string(nil), common.SourceFiles...), nil
	}
	if strings.TrimSpace(common.SourceGlob) == "" {
		return nil, builderr.Errorf(builderr.InvalidConfig, op, "no source files or glob configured")
	}

	root := common.Dir
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, builderr.New(builderr.InvalidConfig, op, err)
	}
	excludes, err := cleanPatterns(common.ExcludePatterns)
	if err != nil {
		return nil, builderr.New(builderr.InvalidConfig, op, err)
	}

	matches, err := expandGlob(root, common.SourceGlob)
	if err != nil {
		return nil, builderr.New(builderr.InvalidConfig, op, err)
	}

	var sources []string
	for _, m := range matches {
		if isExcluded(absRoot, m, excludes) {
			continue
		}
		sources = append(sources, m)
	}
	if len(sources) == 0 {
		return nil, builderr.Errorf(builderr.InvalidConfig, op, "no source files match %q", common.SourceGlob)
	}
	return sources, nil
}

// expandGlob returns the regular files matching pattern, sorted and in
// native separator form. Relative patterns resolve against root and the
// results stay relative to it; absolute patterns give absolute results.
func expandGlob(root, pattern string) ([]string, error) {
	// fs.FS patterns are unrooted and slash separated: "./src/*.cpp" -> "src/*.cpp".
	fsPattern := path.Clean(filepath.ToSlash(pattern))

	var files []string
	switch {
	case filepath.IsAbs(pattern):
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		onDisk := filepath.ToSlash(filepath.Clean(pattern))
		for _, m := range matches {
			if !hiddenMatch(onDisk, filepath.ToSlash(m)) {
				files = append(files, m)
			}
		}
	case fsPattern == ".." || strings.HasPrefix(fsPattern, "../"):
		// Escapes root: glob on disk, then report paths relative to root
		// again since the compiler runs there.
		joined := filepath.Join(root, pattern)
		matches, err := doublestar.FilepathGlob(joined, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		onDisk := filepath.ToSlash(joined)
		for _, m := range matches {
			if hiddenMatch(onDisk, filepath.ToSlash(m)) {
				continue
			}
			rel, err := filepath.Rel(root, m)
			if err != nil {
				return nil, err
			}
			files = append(files, rel)
		}
	default:
		matches, err := doublestar.Glob(os.DirFS(root), fsPattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !hiddenMatch(fsPattern, m) {
				files = append(files, filepath.FromSlash(m))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// hiddenMatch reports whether match reached a dot-prefixed name through a
// wildcard. Both arguments are slash separated.
func hiddenMatch(pattern, match string) bool {
	patternSegs := strings.Split(pattern, "/")
	matchSegs := strings.Split(match, "/")
	aligned := len(patternSegs) == len(matchSegs) && !strings.Contains(pattern, "**")
	for i, seg := range matchSegs {
		if !strings.HasPrefix(seg, ".") || seg == "." || seg == ".." {
			continue
		}
		if aligned {
			if !strings.HasPrefix(patternSegs[i], ".") {
				return true
			}
			continue
		}
		if !dotSegmentMatches(patternSegs, seg) {
			return true
		}
	}
	return false
}

// dotSegmentMatches reports whether some dot-prefixed pattern segment
// accepts the hidden name seg. Used once "**" breaks segment alignment.
func dotSegmentMatches(patternSegs []string, seg string) bool {
	for _, p := range patternSegs {
		if !strings.HasPrefix(p, ".") {
			continue
		}
		if ok, _ := doublestar.Match(p, seg); ok {
			return true
		}
	}
	return false
}

// cleanPatterns normalises exclude patterns the same way glob patterns are:
// slash separated with "./" and duplicate separators removed.
func cleanPatterns(patterns []string) ([]string, error) {
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		var c string
		if filepath.IsAbs(p) {
			c = filepath.ToSlash(filepath.Clean(p))
		} else {
			c = path.Clean(filepath.ToSlash(p))
		}
		if !doublestar.ValidatePattern(c) {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
		cleaned = append(cleaned, c)
	}
	return cleaned, nil
}

// isExcluded matches file against the cleaned exclude patterns. Relative
// patterns see file relative to absRoot, absolute patterns see it absolute,
// whichever form the glob produced.
func isExcluded(absRoot, file string, patterns []string) bool {
	abs, rel := file, file
	if filepath.IsAbs(file) {
		if r, err := filepath.Rel(absRoot, file); err == nil {
			rel = r
		}
	} else {
		abs = filepath.Join(absRoot, file)
	}
	abs, rel = filepath.ToSlash(abs), filepath.ToSlash(rel)

	for _, pattern := range patterns {
		candidate := rel
		if path.IsAbs(pattern) || filepath.IsAbs(filepath.FromSlash(pattern)) {
			candidate = abs
		}
		if ok, _ := doublestar.Match(pattern, candidate); ok {
			return true
		}
	}
	return false
}
