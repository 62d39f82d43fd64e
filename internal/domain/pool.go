package domain

import "time"

// PoolCreator is the display identity of the user who created a pool.
type PoolCreator struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Gender      Gender `json:"gender"`
}

// PoolMember is a participant of a pool.
type PoolMember struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Gender      Gender `json:"gender"`
	IsCreator   bool   `json:"is_creator"`
}

// Pool is a single shared-ride offer. It is fully normalized: every field is
// canonical and required, optionality exists only on the wire payload.
type Pool struct {
	ID             string       `json:"id"`
	CreatedBy      PoolCreator  `json:"created_by"`
	Members        []PoolMember `json:"members"`
	StartPoint     string       `json:"start_point"`
	EndPoint       string       `json:"end_point"`
	DepartureTime  time.Time    `json:"departure_time"`
	ArrivalTime    time.Time    `json:"arrival_time"`
	TransportMode  string       `json:"transport_mode"`
	TotalPersons   int          `json:"total_persons"`
	CurrentPersons int          `json:"current_persons"`
	TotalFare      float64      `json:"total_fare"`
	// FarePerHead is the canonical per-head fare: the server-supplied value
	// when the payload carried one, otherwise total fare over total persons.
	FarePerHead float64 `json:"fare_per_head"`
	Description string  `json:"description"`
	FemaleOnly  bool    `json:"is_female_only"`
}

// HasMember reports whether a member with the given phone number is already
// part of the pool. Phone numbers are the only member identity the API exposes.
func (p Pool) HasMember(phoneNumber string) bool {
	if phoneNumber == "" {
		return false
	}
	if p.CreatedBy.PhoneNumber == phoneNumber {
		return true
	}
	for _, m := range p.Members {
		if m.PhoneNumber == phoneNumber {
			return true
		}
	}
	return false
}

// Full reports whether the pool has no free seats left.
func (p Pool) Full() bool {
	return p.CurrentPersons >= p.TotalPersons
}

// PoolForm carries the writable pool fields for create and update operations.
type PoolForm struct {
	StartPoint     string
	EndPoint       string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	TransportMode  string
	TotalPersons   int
	CurrentPersons int
	TotalFare      float64
	Description    string
	FemaleOnly     bool
}

// MaxPoolPersons caps the seat capacity of a single pool.
const MaxPoolPersons = 20
