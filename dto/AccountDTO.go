package dto

type CreateAccountRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	// Level granted to the creator; defaults to view.
	Permission string `json:"permission" validate:"omitempty,oneof=view post full"`
}

type UpdateAccountRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

type GrantPermissionRequest struct {
	User       uint   `json:"user" validate:"required"`
	Account    uint   `json:"account" validate:"required"`
	Permission string `json:"permission" validate:"required,oneof=view post full"`
}

type UpdatePermissionRequest struct {
	Permission string `json:"permission" validate:"required,oneof=view post full"`
}
