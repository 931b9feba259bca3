package clients

type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Address string `json:"address" validate:"omitempty,max=500"`
	Notes   string `json:"notes"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitnil,min=2,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Notes   *string `json:"notes,omitempty"`
}

type ListClientsRequest struct {
	Search string
	Limit  int
	Offset int
}
