package request

const (
	AuthActionLogin  = "login"
	AuthActionSignup = "signup"
)

type AdminAuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=100"`
	Action   string `json:"action" validate:"required,oneof=login signup"`
}

// ClientMeta is recorded on the session row.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}
