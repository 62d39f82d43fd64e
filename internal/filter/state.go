package filter

import "carpool/internal/domain"

// Field names a single Spec attribute for keyed updates.
type Field string

const (
	FieldSearchQuery   Field = "searchQuery"
	FieldFemaleOnly    Field = "femaleOnly"
	FieldStartPoint    Field = "startPoint"
	FieldEndPoint      Field = "endPoint"
	FieldTransportMode Field = "transportMode"
	FieldFareRange     Field = "fareRange"
)

// Options are the dynamic filter choices derived from the loaded collection:
// the distinct non-empty categorical values in order of first appearance, and
// the floor/ceiling of per-head fare.
type Options struct {
	StartPoints    []string `json:"start_points"`
	EndPoints      []string `json:"end_points"`
	TransportModes []string `json:"transport_modes"`
	FareBounds     Bounds   `json:"fare_bounds"`
}

// DeriveOptions computes the option sets over the full, unfiltered pool
// collection. An empty collection yields empty sets and the default bounds.
func DeriveOptions(pools []domain.Pool) Options {
	opts := Options{
		StartPoints:    []string{},
		EndPoints:      []string{},
		TransportModes: []string{},
		FareBounds:     DefaultFareBounds,
	}
	if len(pools) == 0 {
		return opts
	}

	opts.FareBounds = Bounds{Min: pools[0].FarePerHead, Max: pools[0].FarePerHead}
	for _, pool := range pools {
		opts.StartPoints = appendDistinct(opts.StartPoints, pool.StartPoint)
		opts.EndPoints = appendDistinct(opts.EndPoints, pool.EndPoint)
		opts.TransportModes = appendDistinct(opts.TransportModes, pool.TransportMode)
		if pool.FarePerHead < opts.FareBounds.Min {
			opts.FareBounds.Min = pool.FarePerHead
		}
		if pool.FarePerHead > opts.FareBounds.Max {
			opts.FareBounds.Max = pool.FarePerHead
		}
	}
	return opts
}

// Update returns a copy of spec with exactly one field replaced. No
// cross-field validation happens here; a fare range outside the derived
// bounds is permitted. Unknown fields and mismatched value types leave the
// spec unchanged rather than failing.
func Update(spec Spec, field Field, value any) Spec {
	switch field {
	case FieldSearchQuery:
		if v, ok := value.(string); ok {
			spec.SearchQuery = v
		}
	case FieldFemaleOnly:
		switch v := value.(type) {
		case nil:
			spec.FemaleOnly = nil
		case bool:
			b := v
			spec.FemaleOnly = &b
		case *bool:
			spec.FemaleOnly = v
		}
	case FieldStartPoint:
		if v, ok := value.(string); ok {
			spec.StartPoint = v
		}
	case FieldEndPoint:
		if v, ok := value.(string); ok {
			spec.EndPoint = v
		}
	case FieldTransportMode:
		if v, ok := value.(string); ok {
			spec.TransportMode = v
		}
	case FieldFareRange:
		if v, ok := value.([2]float64); ok {
			spec.FareRange = v
		}
	}
	return spec
}

// Reset restores every field to its unconstrained state with the fare range
// anchored to the supplied bounds.
func Reset(bounds Bounds) Spec {
	return NewSpec(bounds)
}

// WithFareBounds re-anchors the fare range after the collection reloads,
// keeping every other active filter.
func (s Spec) WithFareBounds(bounds Bounds) Spec {
	s.FareRange = [2]float64{bounds.Min, bounds.Max}
	return s
}

func appendDistinct(values []string, v string) []string {
	if v == "" {
		return values
	}
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}
