package models

import "time"

// Gender is the profile gender recorded at registration.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Step identifies the top-level screen the presentation layer should render.
type Step string

const (
	StepHome        Step = "home"
	StepLogin       Step = "login"
	StepRegister    Step = "register"
	StepDashboard   Step = "dashboard"
	StepEditProfile Step = "editProfile"
	StepProfile     Step = "profile"
	StepDiscover    Step = "discover"
	StepChat        Step = "chat"
)

// RequiresIdentity reports whether a step is only reachable with a logged-in user.
func (s Step) RequiresIdentity() bool {
	switch s {
	case StepHome, StepLogin, StepRegister:
		return false
	default:
		return true
	}
}

// Profile represents a user's durable record.
// Gender and Age are set at registration and treated as immutable afterwards;
// enforcement is left to the backing store.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Gender    Gender    `json:"gender"`
	BirthDate time.Time `json:"birth_date"`
	Age       int       `json:"age"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Candidate is a read-only projection of another user's profile for browsing.
type Candidate struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Gender    Gender `json:"gender"`
	Age       int    `json:"age"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Candidate returns the browsing projection of a profile.
func (p *Profile) Candidate() Candidate {
	return Candidate{
		ID:        p.ID,
		Username:  p.Username,
		Gender:    p.Gender,
		Age:       p.Age,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
	}
}

// Session is an opaque proof of authentication. The session controller never
// inspects the token, only the identity it resolves to.
type Session struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}
