package profile

// Profile is a read-only view of a user maintained by the identity
// layer. Tickets and activities reference profiles by ID only.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email"`
}

// UnknownUser is rendered when neither a name nor an email resolves.
const UnknownUser = "Unknown User"

// DisplayName resolves a profile's display name: full name, else
// email, else the placeholder.
func DisplayName(p Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.Email != "" {
		return p.Email
	}
	return UnknownUser
}
