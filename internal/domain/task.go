package domain

import "time"

type Task struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	OwnerID        string     `json:"taskOwnerId" gorm:"size:36;index;not null"`
	ListID         *string    `json:"listId" gorm:"size:36;index"`
	Text           string     `json:"text" gorm:"size:256;not null"`
	Note           string     `json:"note" gorm:"size:1024;not null"`
	IsImportant    bool       `json:"isImportant" gorm:"not null"`
	IsDone         bool       `json:"isDone" gorm:"not null"`
	CreationDate   time.Time  `json:"creationDate" gorm:"autoCreateTime"`
	CompletionDate *time.Time `json:"completionDate"`
}

func (Task) TableName() string { return "tasks" }

// SetDone flips the done flag and keeps CompletionDate consistent with it.
func (t *Task) SetDone(done bool, now time.Time) {
	t.IsDone = done
	if done {
		completed := now
		t.CompletionDate = &completed
		return
	}
	t.CompletionDate = nil
}
