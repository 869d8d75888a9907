package dto

// CollaboratorAddDTO is used for incoming share requests
type CollaboratorAddDTO struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1"`
}
