// Package models contains the client-side data model of the admin console:
// the administrator profile and the rules for extracting it (and the access
// token) from backend response payloads.
package models

// Profile describes the signed-in administrator as the backend reports it.
// Any field may be empty: the server is free to omit fields, and a profile
// fetched right after login can be partially populated.
type Profile struct {
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Image       string `json:"image,omitempty"`
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched
// on merge; non-nil fields replace the stored value (including replacement
// with an empty string, which is how a field is cleared).
type ProfileUpdate struct {
	Name        *string `json:"name,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// IsEmpty reports whether the update mentions no fields at all.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.FirstName == nil && u.LastName == nil &&
		u.Email == nil && u.Phone == nil && u.CountryCode == nil && u.Image == nil
}

// Apply merges the update into p and returns the result. Fields the update
// does not mention keep their previous values.
func (p Profile) Apply(u ProfileUpdate) Profile {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.CountryCode != nil {
		p.CountryCode = *u.CountryCode
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	return p
}

// DisplayName returns the best human-readable name for the profile,
// falling back through name, first/last name and email. An empty profile
// yields "" and is still a valid renderable state.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	if p.FirstName != "" || p.LastName != "" {
		if p.FirstName == "" {
			return p.LastName
		}
		if p.LastName == "" {
			return p.FirstName
		}
		return p.FirstName + " " + p.LastName
	}
	return p.Email
}
