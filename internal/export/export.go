// Package export writes the objects of a comparison tree to files, either a
// saved selection or every changed object.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sadopc/gotermdiff/internal/difftree"
	"github.com/sadopc/gotermdiff/internal/schema"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatSQL  Format = "sql"
)

// ErrUnknownFormat is returned for a format other than csv, json or sql.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatSQL:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Row is one exported object.
type Row struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	FullName string `json:"name"`
	Status   string `json:"status"`
	Color    string `json:"color"`
	Script   string `json:"script,omitempty"`
}

var header = []string{"id", "kind", "name", "status", "color"}

func (r Row) record() []string {
	return []string{r.ID, r.Kind, r.FullName, r.Status, r.Color}
}

// Selected returns the objects of tree whose identity is in sel, in tree
// order. Each object appears once.
func Selected(tree *difftree.Node, sel difftree.Selection) []Row {
	return collect(tree, func(n schema.Node) bool { return sel.Has(n.ID()) })
}

// Changed returns every object of tree with a change: a status other than
// unchanged, including updated objects that carry no color, or a set sub-flag.
func Changed(tree *difftree.Node) []Row {
	return collect(tree, func(n schema.Node) bool {
		return n.Status() != schema.StatusUnchanged || difftree.ColorOf(n) != difftree.Black
	})
}

func collect(tree *difftree.Node, keep func(schema.Node) bool) []Row {
	var rows []Row
	seen := map[schema.ID]bool{}
	difftree.Walk(tree, func(n *difftree.Node) {
		src := n.Source
		if src == nil || seen[src.ID()] || !keep(src) {
			return
		}
		seen[src.ID()] = true
		rows = append(rows, Row{
			ID:       string(src.ID()),
			Kind:     src.Kind().String(),
			FullName: src.FullName(),
			Status:   src.Status().String(),
			Color:    difftree.ColorOf(src).String(),
			Script:   src.Script(),
		})
	})
	return rows
}

// Write encodes rows to w in the given format.
func Write(w io.Writer, f Format, rows []Row) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatSQL:
		return WriteSQL(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// WriteFile creates path and encodes rows into it.
func WriteFile(path string, f Format, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := Write(file, f, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes a header row followed by one record per object. Scripts
// are left out.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rows as an indented JSON array. An empty export is [].
func WriteJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteSQL concatenates the change scripts of rows, each preceded by a
// comment naming the object. Objects without a script are listed as
// comments only.
func WriteSQL(w io.Writer, rows []Row) error {
	for i, r := range rows {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "-- %s %s (%s)\n", r.Kind, r.FullName, r.Status); err != nil {
			return err
		}
		script := strings.TrimRight(r.Script, "\n")
		if script == "" {
			if _, err := io.WriteString(w, "-- no change script\n"); err != nil {
				return err
			}
			continue
		}
		if _, err := io.WriteString(w, script+"\n"); err != nil {
			return err
		}
	}
	return nil
}
