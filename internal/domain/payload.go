package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"carpool/internal/fare"
)

// FlexString is a string that also accepts JSON numbers. The pool API is
// inconsistent about quoting identifiers and phone numbers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// PoolCreatorPayload mirrors the nested created_by object on the wire.
type PoolCreatorPayload struct {
	FullName    string     `json:"full_name"`
	PhoneNumber FlexString `json:"phone_number"`
	Gender      Gender     `json:"gender"`
}

// PoolMemberPayload mirrors a member entry on the wire.
type PoolMemberPayload struct {
	FullName    string     `json:"full_name"`
	PhoneNumber FlexString `json:"phone_number"`
	Gender      Gender     `json:"gender"`
	IsCreator   bool       `json:"is_creator"`
}

// PoolPayload mirrors the pool JSON exactly as the remote API sends it.
// The API went through a field-name migration, so most attributes exist under
// both a snake_case and a legacy camelCase name. This type is the only place
// where that duality is visible; Normalize collapses it into a Pool.
type PoolPayload struct {
	ID        FlexString          `json:"id"`
	CreatedBy *PoolCreatorPayload `json:"created_by"`
	// CreatedByName is the legacy flat creator name.
	CreatedByName string              `json:"createdBy"`
	Members       []PoolMemberPayload `json:"members"`

	StartPoint       *string `json:"start_point"`
	StartPointLegacy *string `json:"startPoint"`
	EndPoint         *string `json:"end_point"`
	EndPointLegacy   *string `json:"endPoint"`

	DepartureTime       *string `json:"departure_time"`
	DepartureTimeLegacy *string `json:"departureTime"`
	ArrivalTime         *string `json:"arrival_time"`
	ArrivalTimeLegacy   *string `json:"arrivalTime"`

	TransportMode       *string `json:"transport_mode"`
	TransportModeLegacy *string `json:"transportMode"`

	TotalPersons         *int `json:"total_persons"`
	TotalPersonsLegacy   *int `json:"totalPersons"`
	CurrentPersons       *int `json:"current_persons"`
	CurrentPersonsLegacy *int `json:"currentPersons"`

	// FarePerHead is a decimal-as-string when the server computed it.
	FarePerHead *string  `json:"fare_per_head"`
	TotalFare   *float64 `json:"totalFare"`

	Description  *string `json:"description"`
	IsFemaleOnly *bool   `json:"is_female_only"`
	FemaleOnly   *bool   `json:"femaleOnly"`
}

// Normalize collapses the dual-named wire payload into the canonical Pool.
// Missing categorical fields become empty strings and fail closed in the
// filter engine; missing fare inputs default so the per-head fare degrades to
// zero instead of excluding the pool.
func (p PoolPayload) Normalize() Pool {
	pool := Pool{
		ID:             string(p.ID),
		StartPoint:     coalesce(p.StartPoint, p.StartPointLegacy),
		EndPoint:       coalesce(p.EndPoint, p.EndPointLegacy),
		TransportMode:  coalesce(p.TransportMode, p.TransportModeLegacy),
		DepartureTime:  parseTime(coalesce(p.DepartureTime, p.DepartureTimeLegacy)),
		ArrivalTime:    parseTime(coalesce(p.ArrivalTime, p.ArrivalTimeLegacy)),
		CurrentPersons: coalesceInt(p.CurrentPersons, p.CurrentPersonsLegacy, 1),
	}
	if p.Description != nil {
		pool.Description = *p.Description
	}

	if p.CreatedBy != nil {
		pool.CreatedBy = PoolCreator{
			FullName:    p.CreatedBy.FullName,
			PhoneNumber: string(p.CreatedBy.PhoneNumber),
			Gender:      p.CreatedBy.Gender,
		}
	} else {
		pool.CreatedBy = PoolCreator{FullName: p.CreatedByName}
	}

	for _, m := range p.Members {
		pool.Members = append(pool.Members, PoolMember{
			FullName:    m.FullName,
			PhoneNumber: string(m.PhoneNumber),
			Gender:      m.Gender,
			IsCreator:   m.IsCreator,
		})
	}

	// Party size defaults to one and total fare to zero when absent, so a
	// payload without fare inputs yields a zero per-head fare.
	pool.TotalPersons = coalesceInt(p.TotalPersons, p.TotalPersonsLegacy, 1)
	if p.TotalFare != nil {
		pool.TotalFare = *p.TotalFare
	}

	pool.FarePerHead = fare.PerHead(pool.TotalFare, float64(pool.TotalPersons))
	if p.FarePerHead != nil && *p.FarePerHead != "" {
		if v, err := strconv.ParseFloat(*p.FarePerHead, 64); err == nil {
			pool.FarePerHead = fare.Round2(v)
		}
	}

	if p.IsFemaleOnly != nil {
		pool.FemaleOnly = *p.IsFemaleOnly
	} else if p.FemaleOnly != nil {
		pool.FemaleOnly = *p.FemaleOnly
	}

	return pool
}

// NormalizePools maps a payload collection preserving order.
func NormalizePools(payloads []PoolPayload) []Pool {
	pools := make([]Pool, 0, len(payloads))
	for _, p := range payloads {
		pools = append(pools, p.Normalize())
	}
	return pools
}

func coalesce(a, b *string) string {
	if a != nil && *a != "" {
		return *a
	}
	if b != nil {
		return *b
	}
	return ""
}

func coalesceInt(a, b *int, def int) int {
	if a != nil {
		return *a
	}
	if b != nil {
		return *b
	}
	return def
}

// parseTime accepts RFC3339 with or without a zone offset. An unparseable
// timestamp normalizes to the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
