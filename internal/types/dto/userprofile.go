package dto

type GetUserProfile struct {
	ID        string   `json:"userId"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	IsActive  bool     `json:"isActive"`
	Teams     []string `json:"teams"`
}

type UpdateUserProfileRequest struct {
	FirstName string    `json:"firstName" validate:"required"`
	LastName  string    `json:"lastName" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	IsActive  *bool     `json:"isActive" validate:"required"`
	Requestor Requestor `json:"requestor" validate:"required"`
}
