package abnfc

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the file extensions recognized as grammar files.
var DefaultExtensions = []string{".abnf", ".bnf"}

// Source provides grammar files for CompileAll.
type Source interface {
	// Files returns the paths of all grammar files, sorted.
	Files() ([]string, error)

	// ReadFile returns the contents of a path returned by Files.
	ReadFile(path string) ([]byte, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func newSourceConfig(opts []SourceOption) sourceConfig {
	cfg := sourceConfig{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// --- Dir Source (directory tree on disk) ---

type dirSource struct {
	root   string
	config sourceConfig
}

// Dir creates a Source that walks the directory tree at root.
func Dir(root string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: root, Err: os.ErrInvalid}
	}
	return &dirSource{root: root, config: newSourceConfig(opts)}, nil
}

func (s *dirSource) Files() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && hasValidExtension(path, extSet) {
			files = append(files, path)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}

func (s *dirSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// --- FS Source (for embed.FS, testing) ---

type fsSource struct {
	fsys    fs.FS
	pattern string
}

// FS creates a Source backed by fsys. pattern selects files with
// doublestar syntax, e.g. "**/*.abnf" or "rfc/*.{abnf,txt}".
func FS(fsys fs.FS, pattern string) Source {
	return &fsSource{fsys: fsys, pattern: pattern}
}

func (s *fsSource) Files() ([]string, error) {
	files, err := doublestar.Glob(s.fsys, s.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func (s *fsSource) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(s.fsys, path)
}

// --- Files Source (explicit paths or globs on disk) ---

type filesSource struct {
	patterns []string
}

// Files creates a Source from paths on disk. Each entry may be a
// doublestar glob; entries matching nothing are reported as missing
// files when read.
func Files(patterns ...string) Source {
	return &filesSource{patterns: patterns}
}

func (s *filesSource) Files() ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, p := range s.patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			matches = []string{p}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

func (s *filesSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
	owner   map[string]Source
}

// Multi combines multiple sources into one. Files lists each source's
// files in turn; a path listed by more than one source is kept once.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) Files() ([]string, error) {
	var files []string
	owner := make(map[string]Source)
	for _, src := range s.sources {
		f, err := src.Files()
		if err != nil {
			return nil, err
		}
		for _, path := range f {
			if _, ok := owner[path]; ok {
				continue
			}
			owner[path] = src
			files = append(files, path)
		}
	}
	s.owner = owner
	return files, nil
}

func (s *multiSource) ReadFile(path string) ([]byte, error) {
	if src, ok := s.owner[path]; ok {
		return src.ReadFile(path)
	}
	for _, src := range s.sources {
		data, err := src.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}

// --- Helpers ---

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(path string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extSet[ext]
	return ok
}
