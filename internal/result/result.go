// Package result loads a schema comparison result document into the object
// model. Documents are YAML; JSON documents load as well since the YAML
// decoder accepts them.
package result

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/gotermdiff/internal/schema"
)

// ErrNoDatabase is returned when a document has no database section.
var ErrNoDatabase = errors.New("result: document has no database")

// Result is a loaded comparison.
type Result struct {
	Database *schema.Database
	Source   string // name of the compared source
	Target   string // name of the comparison target
	Path     string
	Warnings []string
}

type document struct {
	Source   string     `yaml:"source"`
	Target   string     `yaml:"target"`
	Database *objectDoc `yaml:"database"`
}

// objectDoc is the shape of every object in a document. Fields that do not
// apply to a kind are ignored.
type objectDoc struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Owner      string `yaml:"owner"`
	Status     string `yaml:"status"`
	Disabled   bool   `yaml:"disabled"`
	Whitespace bool   `yaml:"whitespace"`
	Rebuild    bool   `yaml:"rebuild"`
	Script     string `yaml:"script"`

	Type     string   `yaml:"type"`
	Nullable bool     `yaml:"nullable"`
	Unique   bool     `yaml:"unique"`
	Keys     []string `yaml:"keys"`

	Schemas     []*objectDoc `yaml:"schemas"`
	Tables      []*objectDoc `yaml:"tables"`
	Views       []*objectDoc `yaml:"views"`
	Procedures  []*objectDoc `yaml:"procedures"`
	Functions   []*objectDoc `yaml:"functions"`
	Synonyms    []*objectDoc `yaml:"synonyms"`
	Users       []*objectDoc `yaml:"users"`
	Roles       []*objectDoc `yaml:"roles"`
	Columns     []*objectDoc `yaml:"columns"`
	Indexes     []*objectDoc `yaml:"indexes"`
	Constraints []*objectDoc `yaml:"constraints"`
	Triggers    []*objectDoc `yaml:"triggers"`
}

// Load reads and parses the document at path.
func Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("result read: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		r.Path = abs
	} else {
		r.Path = path
	}
	return r, nil
}

// Parse decodes a document. Unknown statuses and duplicate identities do not
// fail the load; they are reported in Result.Warnings.
func Parse(data []byte) (*Result, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("result parse: %w", err)
	}
	if doc.Database == nil {
		return nil, ErrNoDatabase
	}

	c := &converter{seen: make(map[schema.ID]int)}
	db := c.database(doc.Database)
	return &Result{
		Database: db,
		Source:   doc.Source,
		Target:   doc.Target,
		Warnings: c.warnings,
	}, nil
}

// Key identifies the comparison for saved selections.
func (r *Result) Key() string {
	if r.Path != "" {
		return r.Path
	}
	return r.Source + "->" + r.Target + ":" + r.Database.Name()
}

type converter struct {
	seen     map[schema.ID]int
	warnings []string
}

func (c *converter) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// object converts the shared attributes. Objects without an explicit id get
// "<kind>:<full name>", which is stable across reloads of the same document.
func (c *converter) object(d *objectDoc, kind schema.Kind, parent string) schema.Object {
	st, ok := schema.ParseStatus(d.Status)
	if !ok {
		c.warnf("%s %q: unknown status %q, treated as unchanged", kind, d.Name, d.Status)
	}
	o := schema.Object{
		Label:  d.Name,
		Owner:  d.Owner,
		Parent: parent,
		State:  st,
		SQL:    d.Script,
	}
	if d.Disabled {
		o.Flags |= schema.FlagDisabled
	}
	if d.Whitespace {
		o.Flags |= schema.FlagWhitespace
	}
	if d.Rebuild {
		o.Flags |= schema.FlagRebuild
	}

	id := schema.ID(d.ID)
	if id == "" {
		id = schema.ID(kind.String() + ":" + o.FullName())
	}
	if n := c.seen[id]; n > 0 {
		c.seen[id] = n + 1
		dup := schema.ID(fmt.Sprintf("%s#%d", id, n+1))
		c.warnf("%s %q: duplicate id %q renamed to %q", kind, d.Name, id, dup)
		id = dup
	} else {
		c.seen[id] = 1
	}
	o.Ident = id
	return o
}

func (c *converter) database(d *objectDoc) *schema.Database {
	db := &schema.Database{Object: c.object(d, schema.KindDatabase, "")}
	for _, x := range compact(d.Schemas) {
		db.Schemas = append(db.Schemas, &schema.Schema{Object: c.object(x, schema.KindSchema, "")})
	}
	for _, x := range compact(d.Tables) {
		db.Tables = append(db.Tables, c.table(x))
	}
	for _, x := range compact(d.Views) {
		db.Views = append(db.Views, c.view(x))
	}
	for _, x := range compact(d.Procedures) {
		db.Procedures = append(db.Procedures, &schema.Procedure{Object: c.object(x, schema.KindProcedure, "")})
	}
	for _, x := range compact(d.Functions) {
		db.Functions = append(db.Functions, &schema.Function{Object: c.object(x, schema.KindFunction, "")})
	}
	for _, x := range compact(d.Synonyms) {
		db.Synonyms = append(db.Synonyms, &schema.Synonym{Object: c.object(x, schema.KindSynonym, "")})
	}
	for _, x := range compact(d.Users) {
		db.Users = append(db.Users, &schema.User{Object: c.object(x, schema.KindUser, "")})
	}
	for _, x := range compact(d.Roles) {
		db.Roles = append(db.Roles, &schema.Role{Object: c.object(x, schema.KindRole, "")})
	}
	return db
}

func (c *converter) table(d *objectDoc) *schema.Table {
	t := &schema.Table{Object: c.object(d, schema.KindTable, "")}
	parent := t.FullName()
	t.Columns = c.columns(d.Columns, parent)
	t.Indexes = c.indexes(d.Indexes, parent)
	for _, x := range compact(d.Constraints) {
		t.Constraints = append(t.Constraints, &schema.Constraint{
			Object: c.object(x, schema.KindConstraint, parent),
			Type:   x.Type,
		})
	}
	t.Triggers = c.triggers(d.Triggers, parent)
	return t
}

func (c *converter) view(d *objectDoc) *schema.View {
	v := &schema.View{Object: c.object(d, schema.KindView, "")}
	parent := v.FullName()
	v.Columns = c.columns(d.Columns, parent)
	v.Indexes = c.indexes(d.Indexes, parent)
	v.Triggers = c.triggers(d.Triggers, parent)
	return v
}

func (c *converter) columns(docs []*objectDoc, parent string) []*schema.Column {
	var out []*schema.Column
	for _, x := range compact(docs) {
		out = append(out, &schema.Column{
			Object:   c.object(x, schema.KindColumn, parent),
			Type:     x.Type,
			Nullable: x.Nullable,
		})
	}
	return out
}

func (c *converter) indexes(docs []*objectDoc, parent string) []*schema.Index {
	var out []*schema.Index
	for _, x := range compact(docs) {
		out = append(out, &schema.Index{
			Object: c.object(x, schema.KindIndex, parent),
			Keys:   x.Keys,
			Unique: x.Unique,
		})
	}
	return out
}

func (c *converter) triggers(docs []*objectDoc, parent string) []*schema.Trigger {
	var out []*schema.Trigger
	for _, x := range compact(docs) {
		out = append(out, &schema.Trigger{Object: c.object(x, schema.KindTrigger, parent)})
	}
	return out
}

// compact drops null entries so the object graph never holds nil objects.
func compact(docs []*objectDoc) []*objectDoc {
	out := docs[:0:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
