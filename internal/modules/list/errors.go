package list

import "taskmanager/internal/pkg/apperr"

var ErrListNotFound = apperr.NotFound("LIST_NOT_FOUND", "List not found")
