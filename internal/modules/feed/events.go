package feed

import "taskmanager/internal/domain"

const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// Event is pushed to the owner of the task it describes.
type Event struct {
	Type string `json:"type"`
	Task any    `json:"task"`
}

type deletedTask struct {
	ID string `json:"id"`
}

func TaskCreated(t *domain.Task) Event {
	return Event{Type: EventTaskCreated, Task: t}
}

func TaskUpdated(t *domain.Task) Event {
	return Event{Type: EventTaskUpdated, Task: t}
}

// TaskDeleted carries only the id of the removed task.
func TaskDeleted(id string) Event {
	return Event{Type: EventTaskDeleted, Task: deletedTask{ID: id}}
}
