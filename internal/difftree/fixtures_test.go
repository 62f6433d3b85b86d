package difftree

import (
	"fmt"

	"github.com/sadopc/gotermdiff/internal/schema"
)

func obj(name string, st schema.Status) schema.Object {
	return schema.Object{Ident: schema.ID(name), Label: name, Owner: "dbo", State: st}
}

func col(table, name string, st schema.Status) *schema.Column {
	o := obj(table+"."+name, st)
	o.Label = name
	o.Owner = ""
	o.Parent = "dbo." + table
	return &schema.Column{Object: o}
}

func table(name string, st schema.Status, cols ...*schema.Column) *schema.Table {
	return &schema.Table{Object: obj(name, st), Columns: cols}
}

func database(tables ...*schema.Table) *schema.Database {
	return &schema.Database{
		Object: schema.Object{Ident: "db", Label: "sales"},
		Tables: tables,
	}
}

// salesDB is a small comparison result with one change of every color.
func salesDB() *schema.Database {
	db := database(
		table("Orders", schema.StatusAltered,
			col("Orders", "id", schema.StatusUnchanged),
			col("Orders", "total", schema.StatusAltered),
		),
		table("customers", schema.StatusCreated,
			col("customers", "id", schema.StatusCreated),
		),
		table("audit", schema.StatusDropped),
		table("legacy", schema.StatusUnchanged),
	)
	db.Views = []*schema.View{
		{Object: obj("active_customers", schema.StatusWhitespace)},
	}
	db.Users = []*schema.User{
		{Object: schema.Object{Ident: "user:app", Label: "app", State: schema.StatusUnchanged}},
	}
	return db
}

// shape is the observable part of a display node.
type shape struct {
	Label    string
	Color    Color
	Checked  bool
	Children []shape
}

func shapeOf(n *Node) shape {
	s := shape{Label: n.Label, Color: n.Color, Checked: n.Checked}
	for _, c := range n.Children {
		s.Children = append(s.Children, shapeOf(c))
	}
	return s
}

func child(n *Node, label string) *Node {
	for _, c := range n.Children {
		if c.Label == label {
			return c
		}
	}
	panic(fmt.Sprintf("no child %q under %q", label, n.Label))
}

func labels(nodes []*Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Label)
	}
	return out
}
