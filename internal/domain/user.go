package domain

import "time"

type User struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	Username         string    `json:"username" gorm:"size:15;uniqueIndex;not null"`
	PasswordHash     string    `json:"-" gorm:"not null"`
	FirstName        string    `json:"firstName" gorm:"size:15"`
	Surname          string    `json:"surname" gorm:"size:15"`
	RegistrationDate time.Time `json:"registrationDate" gorm:"autoCreateTime"`
}

func (User) TableName() string { return "users" }
