package service

import "errors"

var (
	// ErrInvalidRoute is returned when start or end point is missing.
	ErrInvalidRoute = errors.New("start and end point are required")

	// ErrInvalidSchedule is returned when arrival is not strictly after departure.
	ErrInvalidSchedule = errors.New("arrival time must be after departure time")

	// ErrInvalidCapacity is returned when total persons is outside [1,20].
	ErrInvalidCapacity = errors.New("total persons must be between 1 and 20")

	// ErrInvalidPartySize is returned when current persons is outside [1, total persons].
	ErrInvalidPartySize = errors.New("current persons must be between 1 and total persons")

	// ErrInvalidFare is returned when the total fare is negative.
	ErrInvalidFare = errors.New("total fare must not be negative")

	// ErrInvalidGender is returned when the gender is not an accepted choice.
	ErrInvalidGender = errors.New("invalid gender choice")

	// ErrFemaleOnlyRestricted is returned when a non-female user creates,
	// marks, or joins a female-only pool.
	ErrFemaleOnlyRestricted = errors.New("only female users can use female-only pools")

	// ErrNotCreator is returned when someone other than the creator edits a pool.
	ErrNotCreator = errors.New("only the pool creator can edit this pool")

	// ErrAlreadyMember is returned when the caller already belongs to the pool.
	ErrAlreadyMember = errors.New("already a member of this pool")

	// ErrPoolFull is returned when the pool has no free seats.
	ErrPoolFull = errors.New("pool has no free seats")

	// ErrProfileIncomplete is returned when an operation needs profile fields
	// the user has not registered yet.
	ErrProfileIncomplete = errors.New("user profile is incomplete")

	// ErrNoSession is returned when no session token exists for the caller.
	ErrNoSession = errors.New("no active session")

	// ErrEmailDomainNotAllowed is returned when a Google account outside the
	// institutional domain tries to sign in.
	ErrEmailDomainNotAllowed = errors.New("email domain is not allowed")
)
