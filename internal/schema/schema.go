// Package schema is the read-only object model of a schema comparison
// result. Every object carries the change status computed by the diff
// engine; this package only describes the graph, it never computes a diff.
package schema

import "strings"

// ID is the stable identity of an object. Two objects with the same ID are
// the same object, even when they come from different loads of a result.
type ID string

// Status is the primary change status of an object relative to the
// comparison target.
type Status int

const (
	StatusUnchanged Status = iota
	StatusCreated
	StatusDropped
	StatusAltered
	StatusDisabled
	StatusWhitespace
	StatusRebuild
	StatusUpdated
)

var statusNames = map[Status]string{
	StatusUnchanged:  "unchanged",
	StatusCreated:    "created",
	StatusDropped:    "dropped",
	StatusAltered:    "altered",
	StatusDisabled:   "disabled",
	StatusWhitespace: "whitespace",
	StatusRebuild:    "rebuild",
	StatusUpdated:    "updated",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStatus parses the text form of a status. The empty string is
// StatusUnchanged. The second return value is false for unknown text, in
// which case StatusUnchanged is returned.
func ParseStatus(s string) (Status, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusUnchanged, true
	}
	for st, name := range statusNames {
		if name == s {
			return st, true
		}
	}
	return StatusUnchanged, false
}

// Flags refine the primary status. They are layered independently, so an
// altered object can also be disabled.
type Flags uint8

const (
	FlagDisabled Flags = 1 << iota
	FlagWhitespace
	FlagRebuild
)

// Kind classifies an object.
type Kind int

const (
	KindDatabase Kind = iota
	KindSchema
	KindTable
	KindView
	KindColumn
	KindIndex
	KindConstraint
	KindTrigger
	KindProcedure
	KindFunction
	KindSynonym
	KindUser
	KindRole
)

var kindNames = [...]string{
	KindDatabase:   "database",
	KindSchema:     "schema",
	KindTable:      "table",
	KindView:       "view",
	KindColumn:     "column",
	KindIndex:      "index",
	KindConstraint: "constraint",
	KindTrigger:    "trigger",
	KindProcedure:  "procedure",
	KindFunction:   "function",
	KindSynonym:    "synonym",
	KindUser:       "user",
	KindRole:       "role",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one object of the compared schema.
type Node interface {
	ID() ID
	Name() string
	FullName() string
	Kind() Kind
	Status() Status
	// HasState reports whether the primary status is s or the sub-flag
	// matching s is set.
	HasState(s Status) bool
	// Script is the change script the diff engine produced for the object,
	// if any.
	Script() string
}

// Object holds the attributes shared by every kind. Concrete types embed it
// and add their kind and child collections.
type Object struct {
	Ident  ID
	Label  string
	Owner  string
	Parent string // full name of the owning object, for nested kinds
	State  Status
	Flags  Flags
	SQL    string
}

// ID returns the object's identity.
func (o *Object) ID() ID { return o.Ident }

// Name returns the simple name.
func (o *Object) Name() string { return o.Label }

// FullName returns the qualified name: parent.name for nested objects,
// owner.name for owned objects, otherwise the simple name.
func (o *Object) FullName() string {
	switch {
	case o.Parent != "":
		return o.Parent + "." + o.Label
	case o.Owner != "":
		return o.Owner + "." + o.Label
	default:
		return o.Label
	}
}

// Status returns the primary status.
func (o *Object) Status() Status { return o.State }

// HasState reports whether s is the primary status or a set sub-flag.
func (o *Object) HasState(s Status) bool {
	if o.State == s {
		return true
	}
	switch s {
	case StatusDisabled:
		return o.Flags&FlagDisabled != 0
	case StatusWhitespace:
		return o.Flags&FlagWhitespace != 0
	case StatusRebuild:
		return o.Flags&FlagRebuild != 0
	}
	return false
}

// Script returns the change script.
func (o *Object) Script() string { return o.SQL }

// Database is the root of a comparison result.
type Database struct {
	Object
	Schemas    []*Schema
	Tables     []*Table
	Views      []*View
	Procedures []*Procedure
	Functions  []*Function
	Synonyms   []*Synonym
	Users      []*User
	Roles      []*Role
}

func (*Database) Kind() Kind { return KindDatabase }

// Table is a database table.
type Table struct {
	Object
	Columns     []*Column
	Indexes     []*Index
	Constraints []*Constraint
	Triggers    []*Trigger
}

func (*Table) Kind() Kind { return KindTable }

// View is a database view.
type View struct {
	Object
	Columns  []*Column
	Indexes  []*Index
	Triggers []*Trigger
}

func (*View) Kind() Kind { return KindView }

// Column is a table or view column.
type Column struct {
	Object
	Type     string
	Nullable bool
}

func (*Column) Kind() Kind { return KindColumn }

// Index is a table or view index.
type Index struct {
	Object
	Keys   []string
	Unique bool
}

func (*Index) Kind() Kind { return KindIndex }

// Constraint is a table constraint (primary key, foreign key, check, ...).
type Constraint struct {
	Object
	Type string
}

func (*Constraint) Kind() Kind { return KindConstraint }

type Schema struct{ Object }

func (*Schema) Kind() Kind { return KindSchema }

type Trigger struct{ Object }

func (*Trigger) Kind() Kind { return KindTrigger }

type Procedure struct{ Object }

func (*Procedure) Kind() Kind { return KindProcedure }

type Function struct{ Object }

func (*Function) Kind() Kind { return KindFunction }

type Synonym struct{ Object }

func (*Synonym) Kind() Kind { return KindSynonym }

type User struct{ Object }

func (*User) Kind() Kind { return KindUser }

type Role struct{ Object }

func (*Role) Kind() Kind { return KindRole }
