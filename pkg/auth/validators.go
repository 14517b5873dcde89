package auth

// LoginPayload represents the login request body.
type LoginPayload struct {
	ID       int    `json:"id" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=8"`
}

// SetupPayload represents the initial setup request body.
type SetupPayload struct {
	Name        string `json:"name" validate:"required,min=1,max=300"`
	Password    string `json:"password" validate:"required,min=8"`
	ContactInfo string `json:"contact_info" validate:"omitempty,max=300"`
}

// StatusResponse represents the auth status response.
type StatusResponse struct {
	NeedsSetup bool `json:"needs_setup"`
}

// MeResponse represents the current person response.
type MeResponse struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}
