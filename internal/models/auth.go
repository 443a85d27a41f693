package models

import "time"

// SignUpInput carries the credentials and profile metadata for registration.
// Age is denormalized at registration time from the birth date.
type SignUpInput struct {
	Email     string
	Password  string
	Username  string
	Gender    Gender
	BirthDate time.Time
	Bio       string
	Age       int
}
