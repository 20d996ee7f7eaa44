package models

import "time"

// Learner is an account in the tutoring backend. IDs are opaque strings
// (uuids) so that the mastery core never depends on how identity is issued.
type Learner struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string  `json:"token"`
	Learner Learner `json:"learner"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
