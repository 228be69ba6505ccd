package domain

import "time"

// RefreshToken is the single live refresh session of a user.
//
// UserID is the primary key, so a user has at most one row: every login or
// refresh overwrites it and logout deletes it. Only a peppered SHA-256 hash
// of the token is stored, never the token itself.
type RefreshToken struct {
	UserID    string    `json:"userId" gorm:"primaryKey;size:36"`
	TokenHash string    `json:"-" gorm:"size:64;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"index"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
