package models

// User is the signed-in (or registering) actor. ID stays empty until the
// backend assigns one; guest mode is represented by the absence of a User.
type User struct {
	ID       string `json:"id,omitempty"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}
