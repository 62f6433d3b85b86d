package schema

import "reflect"

// Icon keys for tree nodes. The presentation layer maps them to glyphs.
const (
	IconDatabase   = "database"
	IconFolder     = "folder"
	IconSchema     = "schema"
	IconTable      = "table"
	IconView       = "view"
	IconColumn     = "column"
	IconIndex      = "index"
	IconConstraint = "constraint"
	IconTrigger    = "trigger"
	IconProcedure  = "procedure"
	IconFunction   = "function"
	IconSynonym    = "synonym"
	IconUser       = "user"
	IconRole       = "role"
)

// Category describes one user-visible child collection of a kind.
type Category struct {
	Label string
	Icon  string
	// FullName selects the qualified name as the label of the children.
	FullName bool
	// Children returns the collection for an object of the owning kind.
	// A nil result is an empty collection.
	Children func(Node) []Node
}

// collect adapts a typed collection accessor to a Category accessor. Nil
// owners and nil entries are skipped so a typed nil never becomes a non-nil
// Node.
func collect[PE any, P interface {
	*PE
	Node
}, E any, T interface {
	*E
	Node
}](get func(P) []T) func(Node) []Node {
	return func(n Node) []Node {
		p, ok := n.(P)
		if !ok || (*PE)(p) == nil {
			return nil
		}
		items := get(p)
		if len(items) == 0 {
			return nil
		}
		out := make([]Node, 0, len(items))
		for _, it := range items {
			if (*E)(it) == nil {
				continue
			}
			out = append(out, it)
		}
		return out
	}
}

// IsNil reports whether n is nil or holds a nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

var registry = map[Kind][]Category{
	KindDatabase: {
		{Label: "Schemas", Icon: IconSchema, Children: collect(func(d *Database) []*Schema { return d.Schemas })},
		{Label: "Tables", Icon: IconTable, FullName: true, Children: collect(func(d *Database) []*Table { return d.Tables })},
		{Label: "Views", Icon: IconView, FullName: true, Children: collect(func(d *Database) []*View { return d.Views })},
		{Label: "Procedures", Icon: IconProcedure, FullName: true, Children: collect(func(d *Database) []*Procedure { return d.Procedures })},
		{Label: "Functions", Icon: IconFunction, FullName: true, Children: collect(func(d *Database) []*Function { return d.Functions })},
		{Label: "Synonyms", Icon: IconSynonym, FullName: true, Children: collect(func(d *Database) []*Synonym { return d.Synonyms })},
		{Label: "Users", Icon: IconUser, Children: collect(func(d *Database) []*User { return d.Users })},
		{Label: "Roles", Icon: IconRole, Children: collect(func(d *Database) []*Role { return d.Roles })},
	},
	KindTable: {
		{Label: "Columns", Icon: IconColumn, Children: collect(func(t *Table) []*Column { return t.Columns })},
		{Label: "Indexes", Icon: IconIndex, Children: collect(func(t *Table) []*Index { return t.Indexes })},
		{Label: "Constraints", Icon: IconConstraint, Children: collect(func(t *Table) []*Constraint { return t.Constraints })},
		{Label: "Triggers", Icon: IconTrigger, Children: collect(func(t *Table) []*Trigger { return t.Triggers })},
	},
	KindView: {
		{Label: "Columns", Icon: IconColumn, Children: collect(func(v *View) []*Column { return v.Columns })},
		{Label: "Indexes", Icon: IconIndex, Children: collect(func(v *View) []*Index { return v.Indexes })},
		{Label: "Triggers", Icon: IconTrigger, Children: collect(func(v *View) []*Trigger { return v.Triggers })},
	},
}

// Categories returns the ordered child categories declared for kind. Kinds
// without categories are leaves.
func Categories(kind Kind) []Category {
	return registry[kind]
}

// Expandable reports whether objects of kind have their details expanded on
// activation.
func Expandable(kind Kind) bool {
	return kind == KindTable || kind == KindView
}
