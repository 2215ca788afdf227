// Package cache persists the decoded form of a grammar description to disk,
// so that a process that repeatedly loads the same grammar JSON doesn't pay
// the JSON-decode and schema-validation cost of grammar.Decode every time.
// It does not cache the compiled combinator.Parser graph itself: that graph
// is built from interfaces and back-references that aren't a good fit for a
// flat on-disk encoding, so grammar.LoadSource still runs on every call,
// recompiling the rule strings into parsers. Only decode+validate is saved.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/synparse/grammar"
	"golang.org/x/text/unicode/norm"
)

// Cache stores grammar.Source values on disk under Dir, keyed by the hash of
// the grammar JSON text they were decoded from.
type Cache struct {
	Dir string
}

// New returns a Cache rooted at dir. The directory is not created until the
// first call to Put.
func New(dir string) Cache {
	return Cache{Dir: dir}
}

// Key derives the cache key for the given grammar JSON text: the hex SHA-256
// digest of its Unicode NFC normal form, so that byte-for-byte-different but
// canonically-equivalent source texts share a cache entry.
func Key(jsonText string) string {
	normalized := norm.NFC.String(jsonText)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Load compiles jsonText into a *grammar.Grammar, using the cached Source
// for key if present, decoding jsonText directly and caching the result
// otherwise.
func (c Cache) Load(jsonText string) (*grammar.Grammar, error) {
	key := Key(jsonText)

	if src, ok := c.get(key); ok {
		return grammar.LoadSource(src)
	}

	src, err := grammar.Decode(jsonText)
	if err != nil {
		return nil, err
	}

	if err := c.put(key, src); err != nil {
		// caching is an optimization; a failure to persist it should not
		// fail the load.
		fmt.Fprintf(os.Stderr, "warning: could not write grammar cache entry %s: %s\n", key, err)
	}

	return grammar.LoadSource(src)
}

func (c Cache) path(key string) string {
	return filepath.Join(c.Dir, key+".rezi")
}

func (c Cache) get(key string) (grammar.Source, bool) {
	if c.Dir == "" {
		return grammar.Source{}, false
	}

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return grammar.Source{}, false
	}

	var src grammar.Source
	if _, err := rezi.DecBinary(data, &src); err != nil {
		return grammar.Source{}, false
	}

	return src, true
}

func (c Cache) put(key string, src grammar.Source) error {
	if c.Dir == "" {
		return nil
	}

	if err := os.MkdirAll(c.Dir, 0770); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	data := rezi.EncBinary(src)

	return os.WriteFile(c.path(key), data, 0660)
}
