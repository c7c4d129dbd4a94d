package core

// Role is the authorization level of an account.
type Role string

const (
	RoleStandard      Role = "USER"
	RoleAdministrator Role = "ADMIN"
)

// User is an account as reported by the backend. It doubles as the persisted
// session identity.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt *Time  `json:"createdAt,omitempty"`
	UpdatedAt *Time  `json:"updatedAt,omitempty"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

// DisplayName is the name shown to the user.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Credentials identify an existing account.
type Credentials struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// NewAccount describes an account to register.
type NewAccount struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by both login and registration.
type AuthResult struct {
	Token    string `json:"token"`
	Type     string `json:"type,omitempty"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Identity projects the authentication result onto the session identity.
func (a AuthResult) Identity() User {
	return User{
		ID:       a.UserID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
}

// TokenValidity is the payload of the validate-token call.
type TokenValidity struct {
	Valid bool `json:"valid"`
}
