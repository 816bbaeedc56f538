package entity

// User is the profile of the signed-in operator.
type User struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName prefers the full name.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// PasswordChangeResult is the outcome of a password change. Code is an i18n
// code used when the backend gave no message.
type PasswordChangeResult struct {
	Success bool
	Code    string
	Message string
}
