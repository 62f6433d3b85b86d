package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sadopc/gotermdiff/internal/difftree"
	"github.com/sadopc/gotermdiff/internal/result"
	"github.com/sadopc/gotermdiff/internal/schema"
)

func salesTree(t *testing.T) *difftree.Node {
	t.Helper()
	r, err := result.Load("../result/testdata/sales.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return difftree.NewBuilder(difftree.DefaultFilters()).Build(r.Database)
}

func ids(rows []Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{" sql ", FormatSQL, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("error %v does not wrap ErrUnknownFormat", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSelected(t *testing.T) {
	tree := salesTree(t)
	sel := difftree.NewSelection("table:dbo.orders", "user:legacy", "table:missing")

	rows := Selected(tree, sel)
	got := map[string]bool{}
	for _, id := range ids(rows) {
		got[id] = true
	}
	want := map[string]bool{"table:dbo.orders": true, "user:legacy": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Selected ids mismatch (-want +got):\n%s", diff)
	}
}

func TestSelected_Empty(t *testing.T) {
	if rows := Selected(salesTree(t), nil); len(rows) != 0 {
		t.Errorf("nil selection exported %d rows", len(rows))
	}
}

func TestSelected_RowFields(t *testing.T) {
	rows := Selected(salesTree(t), difftree.NewSelection("table:dbo.audit_log"))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := Row{
		ID:       "table:dbo.audit_log",
		Kind:     "table",
		FullName: "dbo.audit_log",
		Status:   "dropped",
		Color:    "red",
		Script:   "DROP TABLE dbo.audit_log;",
	}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestChanged(t *testing.T) {
	rows := Changed(salesTree(t))
	got := map[string]bool{}
	for _, r := range rows {
		got[r.ID] = true
		if r.Color == difftree.Black.String() {
			t.Errorf("%s exported with no change color", r.ID)
		}
	}
	for _, id := range []string{"table:dbo.orders", "table:dbo.customers", "table:dbo.audit_log", "schema:reporting"} {
		if !got[id] {
			t.Errorf("Changed is missing %s", id)
		}
	}
	if got["user:app"] || got["schema:dbo"] {
		t.Error("Changed exported an unchanged object")
	}
}

func TestChanged_IncludesUpdated(t *testing.T) {
	db := &schema.Database{
		Object: schema.Object{Ident: "db", Label: "sales"},
		Procedures: []*schema.Procedure{
			{Object: schema.Object{Ident: "procedure:dbo.refresh", Label: "refresh", Owner: "dbo", State: schema.StatusUpdated}},
			{Object: schema.Object{Ident: "procedure:dbo.noop", Label: "noop", Owner: "dbo"}},
		},
	}
	rows := Changed(difftree.NewBuilder(difftree.DefaultFilters()).Build(db))
	if diff := cmp.Diff([]string{"procedure:dbo.refresh"}, ids(rows)); diff != "" {
		t.Fatalf("Changed ids mismatch (-want +got):\n%s", diff)
	}
	if rows[0].Status != "updated" || rows[0].Color != "black" {
		t.Errorf("row = %+v, want updated with no color", rows[0])
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{ID: "table:dbo.a", Kind: "table", FullName: "dbo.a", Status: "created", Color: "green", Script: "CREATE TABLE dbo.a (id int);"},
		{ID: "view:dbo.v, with comma", Kind: "view", FullName: "dbo.v", Status: "altered", Color: "blue"},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read CSV: %v", err)
	}
	want := [][]string{
		{"id", "kind", "name", "status", "color"},
		{"table:dbo.a", "table", "dbo.a", "created", "green"},
		{"view:dbo.v, with comma", "view", "dbo.v", "altered", "blue"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	rows := []Row{{ID: "table:dbo.a", Kind: "table", FullName: "dbo.a", Status: "created", Color: "green", Script: "CREATE TABLE dbo.a;"}}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, rows); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0]["name"] != "dbo.a" || got[0]["script"] != "CREATE TABLE dbo.a;" {
		t.Errorf("unexpected JSON: %s", buf.String())
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}

func TestWriteSQL(t *testing.T) {
	rows := []Row{
		{Kind: "table", FullName: "dbo.a", Status: "created", Script: "CREATE TABLE dbo.a (id int);\n"},
		{Kind: "view", FullName: "dbo.v", Status: "whitespace"},
	}
	var buf bytes.Buffer
	if err := WriteSQL(&buf, rows); err != nil {
		t.Fatalf("WriteSQL: %v", err)
	}
	want := "-- table dbo.a (created)\nCREATE TABLE dbo.a (id int);\n\n-- view dbo.v (whitespace)\n-- no change script\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("SQL mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("xml"), nil)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Write(xml) error = %v, want ErrUnknownFormat", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sql")
	rows := Selected(salesTree(t), difftree.NewSelection(schema.ID("table:dbo.customers")))

	if err := WriteFile(path, FormatSQL, rows); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "CREATE TABLE dbo.customers") {
		t.Errorf("file content = %q", data)
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	if err := WriteFile(path, FormatCSV, nil); err == nil {
		t.Error("expected error for unwritable path")
	}
}
