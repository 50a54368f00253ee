// Package vault loads Markdown documents from a directory tree.
//
// A vault is a directory of .md files. Loading enumerates the tree, then
// reads file contents on a bounded worker pool; per-file read failures
// are collected and reported, never fatal to the batch. All reads are
// fully joined before Load returns, so callers always see the complete
// document set.
package vault

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const defaultWorkers = 8

// Document is a raw document read from a vault.
type Document struct {
	// Path is the vault-relative file path; it doubles as the document ID.
	Path string

	// Content is the raw file content.
	Content string

	// CreatedAt is the file timestamp reported by the filesystem.
	// Used as the fallback date when a document carries no date property.
	CreatedAt time.Time
}

// SkippedFile records a document that could not be read.
type SkippedFile struct {
	Path string
	Err  error
}

// Result is the outcome of loading a vault.
type Result struct {
	Documents []Document
	Skipped   []SkippedFile
}

// Provider enumerates documents from some storage.
type Provider interface {
	// Load reads all documents. Partial failures are reported in
	// Result.Skipped; Load fails only when the storage itself is
	// unreachable.
	Load(ctx context.Context) (*Result, error)
}

// DirVault reads .md files from a directory tree.
type DirVault struct {
	root    string
	workers int
	logger  *log.Logger
}

// Option configures a DirVault.
type Option func(*DirVault)

// WithWorkers sets the number of concurrent file readers.
func WithWorkers(n int) Option {
	return func(v *DirVault) {
		if n > 0 {
			v.workers = n
		}
	}
}

// WithLogger sets the logger for per-file skip warnings.
func WithLogger(l *log.Logger) Option {
	return func(v *DirVault) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewDirVault creates a vault rooted at dir.
func NewDirVault(dir string, opts ...Option) (*DirVault, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open vault %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault %s is not a directory", dir)
	}

	v := &DirVault{
		root:    dir,
		workers: defaultWorkers,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Root returns the vault root directory.
func (v *DirVault) Root() string { return v.root }

// Load walks the tree for .md files and reads them concurrently.
// Documents are returned sorted by path for deterministic downstream
// processing.
func (v *DirVault) Load(ctx context.Context) (*Result, error) {
	paths, err := v.list()
	if err != nil {
		return nil, err
	}

	jobs := make(chan string)
	results := make(chan readResult)

	var wg sync.WaitGroup
	for i := 0; i < v.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					results <- readResult{path: path, err: ctx.Err()}
					continue
				}
				results <- v.read(path)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	res := &Result{}
	for r := range results {
		if r.err != nil {
			v.logger.Warn("skipping unreadable document", "path", r.path, "err", r.err)
			res.Skipped = append(res.Skipped, SkippedFile{Path: r.path, Err: r.err})
			continue
		}
		res.Documents = append(res.Documents, r.doc)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	slices.SortFunc(res.Documents, func(a, b Document) int {
		return strings.Compare(a.Path, b.Path)
	})
	slices.SortFunc(res.Skipped, func(a, b SkippedFile) int {
		return strings.Compare(a.Path, b.Path)
	})
	return res, nil
}

type readResult struct {
	path string
	doc  Document
	err  error
}

// list walks the tree collecting vault-relative .md paths.
func (v *DirVault) list() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories (e.g. .obsidian, .git) are config, not notes
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			rel, relErr := filepath.Rel(v.root, path)
			if relErr != nil {
				return relErr
			}
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault %s: %w", v.root, err)
	}
	return paths, nil
}

// read loads a single document.
func (v *DirVault) read(rel string) readResult {
	full := filepath.Join(v.root, rel)

	info, err := os.Stat(full)
	if err != nil {
		return readResult{path: rel, err: err}
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return readResult{path: rel, err: err}
	}

	return readResult{
		path: rel,
		doc: Document{
			Path:      rel,
			Content:   string(content),
			CreatedAt: info.ModTime(),
		},
	}
}

// Ensure DirVault implements Provider.
var _ Provider = (*DirVault)(nil)
