package domain

import "time"

type List struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	OwnerID      string    `json:"listOwnerId" gorm:"size:36;index;not null"`
	Label        string    `json:"label" gorm:"size:64;not null"`
	CreationDate time.Time `json:"creationDate" gorm:"autoCreateTime"`
}

func (List) TableName() string { return "lists" }
