package cart

import (
	"testing"
)

func TestLine_Total(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want float64
	}{
		{
			name: "unit price times quantity",
			line: Line{UnitPrice: 250, Quantity: 1},
			want: 250,
		},
		{
			name: "addons are priced per unit",
			line: Line{
				UnitPrice: 200,
				Quantity:  2,
				Addons:    []SelectedAddon{{Title: "Express Processing", Price: 50}},
			},
			want: 500,
		},
		{
			name: "multiple addons",
			line: Line{
				UnitPrice: 100,
				Quantity:  3,
				Addons: []SelectedAddon{
					{Title: "Express", Price: 25},
					{Title: "Insurance", Price: 15},
				},
			},
			want: 420,
		},
		{
			name: "zero quantity clamps to one",
			line: Line{UnitPrice: 99, Quantity: 0},
			want: 99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.Total(); got != tt.want {
				t.Errorf("Total() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	line := Line{
		UnitPrice: 200,
		Quantity:  2,
		Addons:    []SelectedAddon{{Title: "Express", Price: 50}},
	}

	summary := Totals([]Line{line, line})
	if summary.Subtotal != 1000 {
		t.Errorf("expected grand total 1000, got %v", summary.Subtotal)
	}
	if summary.Lines != 2 || summary.Items != 4 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestTotals_Empty(t *testing.T) {
	summary := Totals(nil)
	if summary.Subtotal != 0 || summary.Lines != 0 || summary.Items != 0 {
		t.Errorf("empty cart must total zero, got %+v", summary)
	}
}

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{7, 7},
	}
	for _, tt := range tests {
		if got := ClampQuantity(tt.in); got != tt.want {
			t.Errorf("ClampQuantity(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUpdateQuantity_DecrementFromOneStaysAtOne(t *testing.T) {
	lines := Add(nil, Line{Handle: "dubai-30d", UnitPrice: 250, Quantity: 1})

	lines, ok := UpdateQuantity(lines, lines[0].ID, 0)
	if !ok {
		t.Fatal("expected line to be found")
	}
	if lines[0].Quantity != 1 {
		t.Errorf("quantity must never drop below 1, got %d", lines[0].Quantity)
	}
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	lines := Add(nil, Line{Handle: "dubai-30d", Quantity: 1})
	if _, ok := UpdateQuantity(lines, "missing", 5); ok {
		t.Error("unknown line IDs must report ok=false")
	}
}

func TestRemove(t *testing.T) {
	lines := Add(nil, Line{Handle: "dubai-30d", Quantity: 1})
	lines = Add(lines, Line{Handle: "saudi-1y", Quantity: 1})

	lines, ok := Remove(lines, lines[0].ID)
	if !ok {
		t.Fatal("expected removal to succeed")
	}
	if len(lines) != 1 || lines[0].Handle != "saudi-1y" {
		t.Errorf("unexpected lines after removal: %+v", lines)
	}

	if _, ok := Remove(lines, "missing"); ok {
		t.Error("removing an unknown line must report ok=false")
	}
}

func TestSetTravelers(t *testing.T) {
	lines := Add(nil, Line{Handle: "dubai-30d", Quantity: 2})

	travelers := []Traveler{
		{FullName: "Amal Haddad", PassportNumber: "N1234567", Nationality: "Jordan"},
		{FullName: "Rami Haddad", PassportNumber: "N7654321", Nationality: "Jordan"},
	}
	lines, ok := SetTravelers(lines, lines[0].ID, travelers)
	if !ok {
		t.Fatal("expected line to be found")
	}
	if len(lines[0].Travelers) != 2 || lines[0].Travelers[0].FullName != "Amal Haddad" {
		t.Errorf("unexpected travelers: %+v", lines[0].Travelers)
	}
}
