package user

// NewUser represents the request body for creating a new user.
type NewUser struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
}
