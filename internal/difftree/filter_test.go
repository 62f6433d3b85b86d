package difftree

import (
	"testing"

	"github.com/sadopc/gotermdiff/internal/schema"
)

func TestFilters_Include(t *testing.T) {
	all := []schema.Status{
		schema.StatusUnchanged, schema.StatusCreated, schema.StatusDropped,
		schema.StatusAltered, schema.StatusDisabled, schema.StatusWhitespace,
		schema.StatusRebuild, schema.StatusUpdated,
	}

	tests := []struct {
		name    string
		filters Filters
		want    map[schema.Status]bool // statuses not listed are excluded
	}{
		{
			name:    "strict all on",
			filters: Filters{ShowCreated: true, ShowDropped: true, ShowAltered: true, Mode: FilterStrict},
			want: map[schema.Status]bool{
				schema.StatusCreated: true, schema.StatusDropped: true, schema.StatusAltered: true,
				schema.StatusDisabled: true, schema.StatusWhitespace: true, schema.StatusRebuild: true,
				schema.StatusUpdated: true,
			},
		},
		{
			name:    "strict created only",
			filters: Filters{ShowCreated: true, Mode: FilterStrict},
			want:    map[schema.Status]bool{schema.StatusCreated: true},
		},
		{
			name:    "strict dropped only",
			filters: Filters{ShowDropped: true, Mode: FilterStrict},
			want:    map[schema.Status]bool{schema.StatusDropped: true},
		},
		{
			name:    "strict altered family",
			filters: Filters{ShowAltered: true, Mode: FilterStrict},
			want: map[schema.Status]bool{
				schema.StatusAltered: true, schema.StatusDisabled: true, schema.StatusWhitespace: true,
				schema.StatusRebuild: true, schema.StatusUpdated: true,
			},
		},
		{
			name:    "strict all off",
			filters: Filters{Mode: FilterStrict},
			want:    map[schema.Status]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, st := range all {
				n := &schema.Table{Object: schema.Object{State: st}}
				if got := tt.filters.Include(n); got != tt.want[st] {
					t.Errorf("Include(%v) = %v, want %v", st, got, tt.want[st])
				}
			}
		})
	}
}

func TestFilters_InclusiveIncludesEverything(t *testing.T) {
	for _, f := range []Filters{{}, DefaultFilters(), {ShowCreated: true}} {
		for st := schema.StatusUnchanged; st <= schema.StatusUpdated; st++ {
			n := &schema.Table{Object: schema.Object{State: st}}
			if !f.Include(n) {
				t.Errorf("inclusive %+v excluded %v", f, st)
			}
		}
	}
}

func TestFilters_CreatedWithEverythingOff(t *testing.T) {
	created := &schema.Table{Object: schema.Object{State: schema.StatusCreated}}

	inclusive := Filters{Mode: FilterInclusive}
	if !inclusive.Include(created) {
		t.Error("inclusive mode must keep a created object visible with every toggle off")
	}
	strict := Filters{Mode: FilterStrict}
	if strict.Include(created) {
		t.Error("strict mode must hide a created object with every toggle off")
	}
}

func TestFilters_WithAndGet(t *testing.T) {
	f := DefaultFilters()
	for _, tg := range []Toggle{ToggleCreated, ToggleDropped, ToggleAltered} {
		off := f.With(tg, false)
		if off.Get(tg) {
			t.Errorf("%v still on after With(false)", tg)
		}
		if !f.Get(tg) {
			t.Errorf("With mutated the receiver for %v", tg)
		}
	}
}

func TestParseFilterMode(t *testing.T) {
	tests := map[string]FilterMode{
		"strict":    FilterStrict,
		"STRICT":    FilterStrict,
		"inclusive": FilterInclusive,
		"":          FilterInclusive,
		"other":     FilterInclusive,
	}
	for in, want := range tests {
		if got := ParseFilterMode(in); got != want {
			t.Errorf("ParseFilterMode(%q) = %v, want %v", in, got, want)
		}
	}
	if FilterStrict.String() != "strict" || FilterInclusive.String() != "inclusive" {
		t.Error("unexpected mode names")
	}
}
