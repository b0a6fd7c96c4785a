package ingest

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/schollz/closestmatch"
	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var aliasesYAML []byte

var (
	defaultTables    map[string]*AliasTable
	defaultTablesErr error
	defaultOnce      sync.Once
)

// AliasTable maps logical fields of one dataset to the header names seen in the wild.
type AliasTable struct {
	Name     string
	Fold     Fold
	Fields   map[string][]string
	Required []string
	Counters []string
}

type aliasDoc struct {
	Fold     string              `yaml:"fold"`
	Required []string            `yaml:"required"`
	Fields   map[string][]string `yaml:"fields"`
	Counters []string            `yaml:"counters"`
}

func ParseAliasTables(data []byte) (map[string]*AliasTable, error) {
	var docs map[string]aliasDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse alias tables: %w", err)
	}

	tables := make(map[string]*AliasTable, len(docs))
	for name, doc := range docs {
		fold := ParseFold(doc.Fold)
		t := &AliasTable{
			Name:     name,
			Fold:     fold,
			Fields:   make(map[string][]string, len(doc.Fields)),
			Required: doc.Required,
		}
		for field, candidates := range doc.Fields {
			for _, c := range candidates {
				t.Fields[field] = append(t.Fields[field], NormalizeKey(c, fold))
			}
		}
		for _, c := range doc.Counters {
			t.Counters = append(t.Counters, NormalizeKey(c, fold))
		}
		for _, req := range t.Required {
			if _, ok := t.Fields[req]; !ok {
				return nil, fmt.Errorf("alias table %s: required field %q has no candidates", name, req)
			}
		}
		tables[name] = t
	}
	return tables, nil
}

// DefaultAliasTables returns the embedded tables, parsed once.
func DefaultAliasTables() (map[string]*AliasTable, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultTablesErr = ParseAliasTables(aliasesYAML)
	})
	return defaultTables, defaultTablesErr
}

// MustAliasTable panics when the embedded document is broken or the table does not exist.
func MustAliasTable(name string) *AliasTable {
	tables, err := DefaultAliasTables()
	if err != nil {
		panic(err)
	}
	t, ok := tables[name]
	if !ok {
		panic("ingest: unknown alias table " + name)
	}
	return t
}

// Apply normalizes raw rows with the table's fold and resolves its columns.
func (t *AliasTable) Apply(raw *RawRecords) (*NormalizedRecords, *Columns) {
	recs := Normalize(raw, t.Fold)
	return recs, t.Resolve(recs.Headers)
}

// Key folds a literal column name the same way headers were folded.
func (t *AliasTable) Key(name string) string {
	return NormalizeKey(name, t.Fold)
}

// Columns is an alias table bound to the headers of one file.
type Columns struct {
	table   *AliasTable
	headers []string
	byField map[string][]string
}

func (t *AliasTable) Resolve(headers []string) *Columns {
	c := &Columns{
		table:   t,
		headers: headers,
		byField: make(map[string][]string, len(t.Fields)),
	}

	exact := make(map[string]bool, len(headers))
	for _, h := range headers {
		exact[h] = true
	}

	for field, candidates := range t.Fields {
		var cols []string
		seen := map[string]bool{}
		add := func(h string) {
			if !seen[h] {
				seen[h] = true
				cols = append(cols, h)
			}
		}

		for _, cand := range candidates {
			if exact[cand] {
				add(cand)
				continue
			}
			want := canonical(cand)
			for _, h := range headers {
				if canonical(h) == want {
					add(h)
				}
			}
		}
		c.byField[field] = cols
	}
	return c
}

// Get returns the first non-empty cell among the field's columns.
func (c *Columns) Get(r Record, field string) string {
	for _, col := range c.byField[field] {
		if v := strings.TrimSpace(r[col]); v != "" {
			return v
		}
	}
	return ""
}

func (c *Columns) Found(field string) bool {
	return len(c.byField[field]) > 0
}

// Missing lists required fields that no header resolved to.
func (c *Columns) Missing() []string {
	var missing []string
	for _, req := range c.table.Required {
		if !c.Found(req) {
			missing = append(missing, req)
		}
	}
	return missing
}

// Hint suggests the header closest to the field's preferred name, or "" when nothing is close.
func (c *Columns) Hint(field string) string {
	candidates := c.table.Fields[field]
	if len(candidates) == 0 || len(c.headers) == 0 {
		return ""
	}

	byCanon := make(map[string]string, len(c.headers))
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		k := canonical(h)
		if _, ok := byCanon[k]; !ok {
			byCanon[k] = h
			keys = append(keys, k)
		}
	}

	cm := closestmatch.New(keys, []int{2, 3})
	return byCanon[cm.Closest(canonical(candidates[0]))]
}

func canonical(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(FoldAccents(s)), " ")
}
