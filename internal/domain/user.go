package domain

import "time"

// User is an end-user allowed to submit requests.
type User struct {
	ID           int64
	FullName     string
	StudentID    string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Admin reviews and decides on submitted requests.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
