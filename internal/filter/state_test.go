package filter

import (
	"reflect"
	"testing"

	"carpool/internal/domain"
)

func TestDeriveOptions_EmptyCollection(t *testing.T) {
	opts := DeriveOptions(nil)

	if len(opts.StartPoints) != 0 || len(opts.EndPoints) != 0 || len(opts.TransportModes) != 0 {
		t.Errorf("expected empty option sets, got %+v", opts)
	}
	if opts.FareBounds != DefaultFareBounds {
		t.Errorf("expected default bounds %+v, got %+v", DefaultFareBounds, opts.FareBounds)
	}
}

func TestDeriveOptions_DistinctValuesAndBounds(t *testing.T) {
	pools := []domain.Pool{
		{StartPoint: "Gate1", EndPoint: "Library", TransportMode: "Car", FarePerHead: 20},
		{StartPoint: "Gate1", EndPoint: "Hostel", TransportMode: "SUV", FarePerHead: 50},
		{StartPoint: "Gate2", EndPoint: "Library", TransportMode: "Car", FarePerHead: 35},
		{StartPoint: "", EndPoint: "Library", TransportMode: "", FarePerHead: 10},
	}

	opts := DeriveOptions(pools)

	if !reflect.DeepEqual(opts.StartPoints, []string{"Gate1", "Gate2"}) {
		t.Errorf("unexpected start points: %v", opts.StartPoints)
	}
	if !reflect.DeepEqual(opts.EndPoints, []string{"Library", "Hostel"}) {
		t.Errorf("unexpected end points: %v", opts.EndPoints)
	}
	if !reflect.DeepEqual(opts.TransportModes, []string{"Car", "SUV"}) {
		t.Errorf("unexpected transport modes: %v", opts.TransportModes)
	}
	if opts.FareBounds.Min != 10 || opts.FareBounds.Max != 50 {
		t.Errorf("unexpected fare bounds: %+v", opts.FareBounds)
	}
}

func TestUpdate_ReplacesExactlyOneField(t *testing.T) {
	bounds := Bounds{Min: 0, Max: 100}
	spec := NewSpec(bounds)

	updated := Update(spec, FieldSearchQuery, "ali")
	if updated.SearchQuery != "ali" {
		t.Errorf("search query not updated: %+v", updated)
	}
	updated.SearchQuery = spec.SearchQuery
	if !reflect.DeepEqual(updated, spec) {
		t.Errorf("other fields changed: %+v", updated)
	}

	updated = Update(spec, FieldFemaleOnly, true)
	if updated.FemaleOnly == nil || !*updated.FemaleOnly {
		t.Errorf("female-only not updated: %+v", updated)
	}

	updated = Update(updated, FieldFemaleOnly, nil)
	if updated.FemaleOnly != nil {
		t.Errorf("female-only not cleared: %+v", updated)
	}

	updated = Update(spec, FieldFareRange, [2]float64{5, 40})
	if updated.FareRange != [2]float64{5, 40} {
		t.Errorf("fare range not updated: %+v", updated)
	}

	// No cross-field validation: a range outside the bounds is permitted.
	updated = Update(spec, FieldFareRange, [2]float64{-10, 900})
	if updated.FareRange != [2]float64{-10, 900} {
		t.Errorf("out-of-bounds fare range rejected: %+v", updated)
	}
}

func TestUpdate_UnknownFieldOrTypeLeavesSpecUnchanged(t *testing.T) {
	spec := NewSpec(Bounds{Min: 0, Max: 100})

	if got := Update(spec, Field("bogus"), "x"); !reflect.DeepEqual(got, spec) {
		t.Errorf("unknown field mutated spec: %+v", got)
	}
	if got := Update(spec, FieldSearchQuery, 42); !reflect.DeepEqual(got, spec) {
		t.Errorf("mismatched type mutated spec: %+v", got)
	}
}

func TestUpdate_DoesNotMutateInput(t *testing.T) {
	spec := NewSpec(Bounds{Min: 0, Max: 100})
	before := spec

	_ = Update(spec, FieldSearchQuery, "ali")
	_ = Update(spec, FieldFemaleOnly, true)

	if !reflect.DeepEqual(spec, before) {
		t.Errorf("input spec mutated: %+v", spec)
	}
}

func TestReset_DiscardsPriorMutations(t *testing.T) {
	bounds := Bounds{Min: 3, Max: 77}
	spec := NewSpec(bounds)
	spec = Update(spec, FieldSearchQuery, "ali")
	spec = Update(spec, FieldFemaleOnly, true)
	spec = Update(spec, FieldStartPoint, "Gate1")

	got := Reset(bounds)
	if !reflect.DeepEqual(got, NewSpec(bounds)) {
		t.Errorf("reset spec differs from a fresh one: %+v", got)
	}
}

func TestWithFareBounds_KeepsOtherFilters(t *testing.T) {
	spec := NewSpec(Bounds{Min: 0, Max: 100})
	spec = Update(spec, FieldSearchQuery, "ali")
	spec = Update(spec, FieldTransportMode, "Car")

	got := spec.WithFareBounds(Bounds{Min: 12, Max: 60})

	if got.FareRange != [2]float64{12, 60} {
		t.Errorf("fare range not re-anchored: %+v", got)
	}
	if got.SearchQuery != "ali" || got.TransportMode != "Car" {
		t.Errorf("active filters discarded: %+v", got)
	}
}
