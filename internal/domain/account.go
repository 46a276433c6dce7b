package domain

// Account is a registered user. Passwords are stored as provided;
// credential hardening is out of scope for this service.
type Account struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
