package domain

// Gender values accepted by the pool API.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOthers Gender = "Others"
)

// ValidGender reports whether g is one of the accepted gender choices.
func ValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOthers:
		return true
	default:
		return false
	}
}

// UserProfile is the authenticated user's profile snapshot. It is cached in
// the session store alongside the tokens and re-fetched on cache miss.
type UserProfile struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Gender      Gender `json:"gender"`
}

// Complete reports whether the profile carries the fields the pool API
// requires before issuing full session tokens.
func (p UserProfile) Complete() bool {
	return p.PhoneNumber != "" && p.Gender != ""
}
