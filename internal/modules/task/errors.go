package task

import (
	"taskmanager/internal/pkg/apperr"
)

var (
	ErrTaskNotFound = apperr.NotFound("TASK_NOT_FOUND", "Task not found")
	ErrListNotFound = apperr.NotFound("LIST_NOT_FOUND", "List not found")
)
