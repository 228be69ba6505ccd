package list

type CreateListRequest struct {
	Label string `json:"label" validate:"required,min=1,max=64"`
}

type UpdateListRequest struct {
	Label string `json:"label" validate:"required,min=1,max=64"`
}
