package request

// CreateClient is the request body for creating a client.
type CreateClient struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateClient is the request body for updating a client.
type UpdateClient struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Email string `json:"email" validate:"required,email"`
}
