package models

// User is one provisioned account row in the credential store.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
}
