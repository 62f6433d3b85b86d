package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/gotermdiff/internal/config"
	"github.com/sadopc/gotermdiff/internal/schema"
	"github.com/sadopc/gotermdiff/internal/selstore"
)

const salesPath = "../../internal/result/testdata/sales.yaml"

// writeConfig creates a config file that keeps the store inside dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	body := "store:\n  path: " + filepath.Join(dir, "sel.db") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTreeFlags_Apply(t *testing.T) {
	tc := config.DefaultConfig().Tree
	treeFlags{strict: true, lazy: true, hideEmpty: true, noCreated: true}.apply(&tc)

	if tc.FilterMode != "strict" {
		t.Errorf("FilterMode = %q, want strict", tc.FilterMode)
	}
	if !tc.LazyExpand || !tc.HideEmptyGroups {
		t.Errorf("LazyExpand=%v HideEmptyGroups=%v, want both true", tc.LazyExpand, tc.HideEmptyGroups)
	}
	if tc.ShowCreated {
		t.Error("ShowCreated should be off")
	}
	if !tc.ShowDropped || !tc.ShowAltered {
		t.Error("unset flags should keep the configured filters")
	}
}

func TestTreeFlags_ZeroKeepsConfig(t *testing.T) {
	tc := config.DefaultConfig().Tree
	want := tc
	treeFlags{}.apply(&tc)
	if tc != want {
		t.Errorf("apply with no flags changed config: %+v", tc)
	}
}

func TestPrintCmd(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	out, _, err := execute(t, "print", "-c", cfgPath, salesPath)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	for _, want := range []string{"sales", "dbo.orders", "dbo.customers", "dbo.audit_log"} {
		if !strings.Contains(out, want) {
			t.Errorf("print output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintCmd_StrictNoCreated(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	out, _, err := execute(t, "print", "-c", cfgPath, "--strict", "--no-created", salesPath)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out, "dbo.orders") {
		t.Errorf("altered table missing:\n%s", out)
	}
	if strings.Contains(out, "dbo.customers") {
		t.Errorf("created table should be filtered out:\n%s", out)
	}
}

func TestPrintCmd_MissingFile(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	if _, _, err := execute(t, "print", "-c", cfgPath, "does-not-exist.yaml"); err == nil {
		t.Error("expected error for missing result file")
	}
}

func TestExportCmd_Selection(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	key, err := filepath.Abs(salesPath)
	if err != nil {
		t.Fatal(err)
	}
	store, err := selstore.Open(filepath.Join(dir, "sel.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(key, []schema.ID{"table:dbo.audit_log"}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	out, _, err := execute(t, "export", "-c", cfgPath, "-f", "sql", salesPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "DROP TABLE dbo.audit_log;") {
		t.Errorf("export output missing script:\n%s", out)
	}
	if strings.Contains(out, "dbo.customers") {
		t.Errorf("export included an unselected object:\n%s", out)
	}
}

func TestExportCmd_SelectionIgnoresFilters(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	key, err := filepath.Abs(salesPath)
	if err != nil {
		t.Fatal(err)
	}
	store, err := selstore.Open(filepath.Join(dir, "sel.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(key, []schema.ID{"table:dbo.audit_log", "table:dbo.gone"}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	out, errOut, err := execute(t, "export", "-c", cfgPath, "--strict", "--no-dropped", "-f", "sql", salesPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "DROP TABLE dbo.audit_log;") {
		t.Errorf("filtered-out saved object missing:\n%s", out)
	}
	if !strings.Contains(errOut, "skipped 1 saved object(s)") {
		t.Errorf("stderr = %q, want a skipped warning", errOut)
	}
}

func TestExportCmd_NothingSaved(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	_, _, err := execute(t, "export", "-c", cfgPath, salesPath)
	if err == nil || !strings.Contains(err.Error(), "--all") {
		t.Errorf("export without a saved selection: err = %v", err)
	}
}

func TestExportCmd_AllToFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	outPath := filepath.Join(dir, "changes.csv")

	_, errOut, err := execute(t, "export", "-c", cfgPath, "--all", "-o", outPath, salesPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "id,kind,name,status,color\n") {
		t.Errorf("csv header missing:\n%s", data)
	}
	if !strings.Contains(string(data), "table:dbo.customers") {
		t.Errorf("created table missing from --all export:\n%s", data)
	}
	if !strings.Contains(errOut, "Exported") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestExportCmd_BadFormat(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())
	if _, _, err := execute(t, "export", "-c", cfgPath, "-f", "xml", "--all", salesPath); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "gotermdiff "+version) {
		t.Errorf("version output = %q", out)
	}
}

func TestSelectionsCmd_Empty(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	out, _, err := execute(t, "selections", "-c", cfgPath)
	if err != nil {
		t.Fatalf("selections: %v", err)
	}
	if strings.TrimSpace(out) != "No saved selections." {
		t.Errorf("output = %q", out)
	}
}

func TestSelectionsClear_Missing(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	if _, _, err := execute(t, "selections", "clear", "-c", cfgPath, salesPath); err != nil {
		t.Errorf("clearing an unsaved comparison should succeed, got %v", err)
	}
}

func TestSetupLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")

	f, err := setupLogging(path, true)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	if f == nil {
		t.Fatal("expected an open log file")
	}
	defer f.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestSetupLogging_Discard(t *testing.T) {
	f, err := setupLogging("", false)
	if err != nil || f != nil {
		t.Errorf("setupLogging(\"\", false) = %v, %v; want nil, nil", f, err)
	}
}
