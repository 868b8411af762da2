package domain

// User is the read model for account holders. Authentication lives outside
// this service.
type User struct {
	ID        int64
	Email     string
	Username  string
	FirstName string
	LastName  string
}

// DisplayName returns the name used in notification emails.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
