package difftree

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/sadopc/gotermdiff/internal/schema"
)

func TestColorOf(t *testing.T) {
	tests := []struct {
		name  string
		state schema.Status
		flags schema.Flags
		want  Color
	}{
		{"unchanged", schema.StatusUnchanged, 0, Black},
		{"dropped", schema.StatusDropped, 0, Red},
		{"created", schema.StatusCreated, 0, Green},
		{"altered", schema.StatusAltered, 0, Blue},
		{"disabled", schema.StatusDisabled, 0, Blue},
		{"whitespace", schema.StatusWhitespace, 0, Gold},
		{"rebuild", schema.StatusRebuild, 0, Purple},
		{"updated", schema.StatusUpdated, 0, Black},
		{"unknown status", schema.Status(42), 0, Black},
		{"unchanged but disabled", schema.StatusUnchanged, schema.FlagDisabled, Blue},
		{"altered beats rebuild flag", schema.StatusAltered, schema.FlagRebuild, Blue},
		{"dropped beats flags", schema.StatusDropped, schema.FlagDisabled | schema.FlagWhitespace, Red},
		{"whitespace beats rebuild", schema.StatusUnchanged, schema.FlagWhitespace | schema.FlagRebuild, Gold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &schema.Column{Object: schema.Object{State: tt.state, Flags: tt.flags}}
			if got := ColorOf(n); got != tt.want {
				t.Errorf("ColorOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorOf_Nil(t *testing.T) {
	if got := ColorOf(nil); got != Black {
		t.Errorf("ColorOf(nil) = %v, want black", got)
	}
}

func TestMix(t *testing.T) {
	tests := []struct {
		acc, c, want Color
	}{
		{Black, Black, Black},
		{Black, Red, Red},
		{Red, Red, Red},
		{Red, Black, Red},
		{Red, Green, Plum},
		{Plum, Green, Plum},
		{Plum, Black, Plum},
		{Black, Plum, Plum},
		{Blue, Plum, Plum},
	}
	for _, tt := range tests {
		if got := Mix(tt.acc, tt.c); got != tt.want {
			t.Errorf("Mix(%v, %v) = %v, want %v", tt.acc, tt.c, got, tt.want)
		}
	}
}

func TestAggregate(t *testing.T) {
	if got := Aggregate(Black); got != Black {
		t.Errorf("Aggregate(black) = %v", got)
	}
	if got := Aggregate(Black, Gold, Gold, Black); got != Gold {
		t.Errorf("single kind: got %v, want gold", got)
	}
	if got := Aggregate(Blue, Black, Blue); got != Blue {
		t.Errorf("own color kept: got %v, want blue", got)
	}
	if got := Aggregate(Blue, Green); got != Plum {
		t.Errorf("own color and child differ: got %v, want plum", got)
	}
}

var changeColors = []Color{Red, Green, Blue, Gold, Purple}

func TestAggregate_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		colors := rapid.SliceOf(rapid.SampledFrom(append([]Color{Black}, changeColors...))).Draw(t, "colors")

		distinct := map[Color]bool{}
		for _, c := range colors {
			if c != Black {
				distinct[c] = true
			}
		}
		got := Aggregate(Black, colors...)

		switch len(distinct) {
		case 0:
			if got != Black {
				t.Fatalf("no changes: got %v, want black", got)
			}
		case 1:
			for c := range distinct {
				if got != c {
					t.Fatalf("single change kind %v: got %v", c, got)
				}
			}
		default:
			if got != Plum {
				t.Fatalf("%d change kinds: got %v, want plum", len(distinct), got)
			}
		}

		// The fold does not depend on order.
		reversed := make([]Color, len(colors))
		for i, c := range colors {
			reversed[len(colors)-1-i] = c
		}
		if rev := Aggregate(Black, reversed...); rev != got {
			t.Fatalf("order dependent: %v vs %v", got, rev)
		}
	})
}
