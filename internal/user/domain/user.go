package domain

import "time"

type ID int64

type User struct {
	ID           ID
	FirstName    string
	LastName     string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
