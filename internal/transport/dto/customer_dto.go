package dto

// ListCustomersRequest filters the customer management list.
type ListCustomersRequest struct {
	Search string `form:"search" validate:"max=200"`
}

// CreateCustomerRequest defines the structure for creating a customer.
type CreateCustomerRequest struct {
	FullName     string `json:"full_name" validate:"required,max=200"`
	Email        string `json:"email" validate:"omitempty,email,max=254"`
	Phone        string `json:"phone" validate:"max=50"`
	AddressLine1 string `json:"address_line1" validate:"max=200"`
	AddressLine2 string `json:"address_line2" validate:"max=200"`
	City         string `json:"city" validate:"max=100"`
	State        string `json:"state" validate:"max=100"`
	PostalCode   string `json:"postal_code" validate:"max=20"`
	Notes        string `json:"notes"`
}

// UpdateCustomerRequest is a partial update; nil fields are left unchanged.
type UpdateCustomerRequest struct {
	ID           int64   `json:"-" validate:"required,gt=0"`
	FullName     *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	AddressLine1 *string `json:"address_line1,omitempty" validate:"omitempty,max=200"`
	AddressLine2 *string `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State        *string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Notes        *string `json:"notes,omitempty"`
}

// CustomerSummaryResponse is one row of GET /customers/.
type CustomerSummaryResponse struct {
	ID             int64   `json:"id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	MemorialsCount int     `json:"memorials_count"`
	LastContact    *string `json:"last_contact"`
}
