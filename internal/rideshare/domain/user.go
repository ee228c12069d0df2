package domain

type User struct {
	ID     string  `json:"_id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

// AuthMode selects between signing in and creating an account.
type AuthMode string

const (
	AuthLogin    AuthMode = "login"
	AuthRegister AuthMode = "register"
)

func (m AuthMode) Valid() bool {
	return m == AuthLogin || m == AuthRegister
}

type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// AuthResult is what the remote API hands back on login or registration.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
