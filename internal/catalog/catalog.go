// Package catalog loads the static manufacturer table of driver versions,
// download links and recommended tools.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/go-tangra/go-tangra-advisor/internal/classify"
	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
	"github.com/go-tangra/go-tangra-advisor/internal/logging"
)

//go:embed catalog.json
var bundled []byte

// entryKeys are the field names that mark a flat (unkeyed) entry.
var entryKeys = []string{"latestDriverVersion", "driverUrl", "biosUrl", "updateUrl", "instructions", "monitoringTools", "overclockingTools"}

// Catalog is an immutable manufacturer table. The zero value and a nil
// pointer are valid empty catalogs.
type Catalog struct {
	doc      Document
	problems []string
}

// Empty returns a catalog with no entries.
func Empty() *Catalog {
	return &Catalog{doc: Document{}}
}

// Default returns the catalog bundled into the binary.
func Default() (*Catalog, error) {
	return Parse(bundled)
}

// Load reads and parses the catalog document at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "catalog file not found", err, map[string]any{"path": path})
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "read catalog", err, map[string]any{"path": path})
	}
	return Parse(data)
}

// LoadOrEmpty loads path (or the bundled catalog when path is empty) and
// falls back to an empty catalog on any failure.
func LoadOrEmpty(path string) *Catalog {
	log := logging.For("catalog")

	var (
		c   *Catalog
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		log.WithError(err).Warn("catalog unavailable, recommendations that need it will be omitted")
		return Empty()
	}
	for _, p := range c.problems {
		log.Warn(p)
	}
	log.WithField("entries", c.Len()).Debug("catalog loaded")
	return c
}

// Parse decodes a catalog document. Only a document that is not a JSON
// object fails; malformed categories or entries are skipped and reported by
// Problems.
func Parse(data []byte) (*Catalog, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "parse catalog", err)
	}

	c := &Catalog{doc: Document{}}
	for _, cat := range Categories {
		raw, ok := top[string(cat)]
		if !ok {
			c.problems = append(c.problems, fmt.Sprintf("catalog has no %q section", cat))
			continue
		}

		var section map[string]json.RawMessage
		if err := json.Unmarshal(raw, &section); err != nil {
			c.problems = append(c.problems, fmt.Sprintf("catalog section %q is not an object: %v", cat, err))
			continue
		}

		entries := make(map[classify.ID]Entry)
		if cat == Windows && isFlatEntry(section) {
			var e Entry
			if err := json.Unmarshal(raw, &e); err != nil {
				c.problems = append(c.problems, fmt.Sprintf("catalog entry %s/default: %v", cat, err))
			} else {
				entries[classify.Default] = e
			}
			c.doc[cat] = entries
			continue
		}

		for id, rawEntry := range section {
			var e Entry
			if err := json.Unmarshal(rawEntry, &e); err != nil {
				c.problems = append(c.problems, fmt.Sprintf("catalog entry %s/%s: %v", cat, id, err))
				continue
			}
			entries[classify.ID(id)] = e
		}
		c.doc[cat] = entries
	}

	sort.Strings(c.problems)
	return c, nil
}

func isFlatEntry(section map[string]json.RawMessage) bool {
	for _, k := range entryKeys {
		if _, ok := section[k]; ok {
			return true
		}
	}
	return false
}

// Entry returns the entry for id in cat. A missing key is a normal
// outcome, not an error.
func (c *Catalog) Entry(cat Category, id classify.ID) (Entry, bool) {
	if c == nil || id == classify.Unclassified {
		return Entry{}, false
	}
	e, ok := c.doc[cat][id]
	return e, ok
}

// Len returns the number of entries across all categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, m := range c.doc {
		n += len(m)
	}
	return n
}

// Problems lists sections and entries skipped while parsing.
func (c *Catalog) Problems() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.problems...)
}

// Document returns a copy of the decoded table.
func (c *Catalog) Document() Document {
	out := Document{}
	if c == nil {
		return out
	}
	for cat, m := range c.doc {
		cp := make(map[classify.ID]Entry, len(m))
		for id, e := range m {
			cp[id] = e
		}
		out[cat] = cp
	}
	return out
}
