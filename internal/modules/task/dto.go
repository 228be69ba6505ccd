package task

type CreateTaskRequest struct {
	Text        string  `json:"text" validate:"required,min=1,max=256"`
	Note        *string `json:"note" validate:"omitempty,max=1024"`
	IsImportant bool    `json:"isImportant"`
	ListID      *string `json:"listId" validate:"omitempty,uuid"`
}

// UpdateTaskRequest changes only the fields that are present. An empty
// listId moves the task out of its list.
type UpdateTaskRequest struct {
	Text        *string `json:"text" validate:"omitempty,min=1,max=256"`
	Note        *string `json:"note" validate:"omitempty,max=1024"`
	IsImportant *bool   `json:"isImportant"`
	IsDone      *bool   `json:"isDone"`
	ListID      *string `json:"listId" validate:"omitempty,max=36"`
}
