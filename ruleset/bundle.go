package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/jvitoroc/ruleast/eval"
)

// BundleHeader starts every compiled bundle.
var BundleHeader = []byte("RULEAST1")

type bundleEntry struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Condition string           `json:"condition"`
	AST       *eval.Expression `json:"ast"`
}

// WriteBundle stores the rules together with their parsed trees, so
// ReadBundle does not have to parse the conditions again.
func (s *RuleSet) WriteBundle(fs billy.Filesystem, path string) error {
	rules := s.Rules()

	entries := make([]bundleEntry, len(rules))
	for i, r := range rules {
		entries[i] = bundleEntry{
			ID:        r.ID.String(),
			Name:      r.Name,
			Condition: r.Condition,
			AST:       r.Expr,
		}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()

	blob := append(bytes.Clone(BundleHeader), enc.EncodeAll(raw, nil)...)

	if err := util.WriteFile(fs, path, blob, 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	return nil
}

// ReadBundle loads a bundle written by WriteBundle.
func ReadBundle(fs billy.Filesystem, path string, opts ...Option) (*RuleSet, error) {
	blob, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	if !bytes.HasPrefix(blob, BundleHeader) {
		return nil, fmt.Errorf("%w: %s: missing header", ErrInvalidBundle, path)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(blob[len(BundleHeader):], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidBundle, path, err)
	}

	var entries []bundleEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidBundle, path, err)
	}

	s := New(opts...)
	for i, e := range entries {
		if e.AST == nil {
			return nil, fmt.Errorf("%w: %s: entry %d has no tree", ErrInvalidBundle, path, i)
		}

		if e.Name == "" {
			return nil, fmt.Errorf("%w: %s: entry %d: %w", ErrInvalidBundle, path, i, ErrEmptyName)
		}

		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: entry %d: %w", ErrInvalidBundle, path, i, err)
		}

		r := &Rule{
			ID:        id,
			Name:      e.Name,
			Condition: e.Condition,
			Expr:      e.AST,
		}

		if err := s.add(r); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i, err)
		}
	}

	return s, nil
}
