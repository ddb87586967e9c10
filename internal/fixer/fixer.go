// Package fixer rewrites HTML entity escapes in source files.
package fixer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/viant/afs"
)

// replacement is a single ordered old->new substitution.
type replacement struct {
	old string
	new string
}

// replacements lists the entity substitutions in application order. The
// ampersand entity is decoded last so earlier substitutions cannot be
// re-expanded: a literal "&amp;lt;" decodes to "&lt;", not "<".
var replacements = []replacement{
	{"&apos;", "'"},
	{"&quot;", `"`},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&amp;", "&"},
}

// Outcome describes the result of processing a single file.
type Outcome int

const (
	// OutcomeFixed means the file contained entities and was rewritten.
	OutcomeFixed Outcome = iota
	// OutcomeNoChange means the file was already clean and was not written.
	OutcomeNoChange
	// OutcomeNotFound means the path does not exist and was skipped.
	OutcomeNotFound
	// OutcomeError means reading or writing the file failed.
	OutcomeError
)

// String returns a short human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeFixed:
		return "fixed"
	case OutcomeNoChange:
		return "no-change"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Decode applies the five entity substitutions to s, in order.
func Decode(s string) string {
	for _, r := range replacements {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return s
}

// Fixer processes individual files through an afs file service.
type Fixer struct {
	fs afs.Service
}

// New returns a Fixer backed by the default afs service.
func New() *Fixer {
	return &Fixer{fs: afs.New()}
}

// NewWithService returns a Fixer backed by the provided file service.
// It is primarily for tests that want an in-memory file system.
func NewWithService(fs afs.Service) *Fixer {
	return &Fixer{fs: fs}
}

// FixFile reads the file at path, decodes the entity escapes, and writes the
// result back only when the content changed. A missing path yields
// OutcomeNotFound. Read or write failures yield OutcomeError together with
// the underlying error; the caller decides whether to continue.
func (f *Fixer) FixFile(ctx context.Context, path string) (Outcome, error) {
	exists, err := f.fs.Exists(ctx, path)
	if err != nil {
		return OutcomeError, fmt.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		return OutcomeNotFound, nil
	}

	reader, err := f.fs.OpenURL(ctx, path)
	if err != nil {
		return OutcomeError, fmt.Errorf("opening %s: %w", path, err)
	}
	data, err := io.ReadAll(reader)
	// Close before any write so the handle never outlives this file's turn.
	if closeErr := reader.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return OutcomeError, fmt.Errorf("reading %s: %w", path, err)
	}

	original := string(data)
	decoded := Decode(original)
	if decoded == original {
		return OutcomeNoChange, nil
	}

	if err := f.fs.Upload(ctx, path, 0644, strings.NewReader(decoded)); err != nil {
		return OutcomeError, fmt.Errorf("writing %s: %w", path, err)
	}
	return OutcomeFixed, nil
}
