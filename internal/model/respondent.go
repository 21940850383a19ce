package model

import "time"

// Respondent is an exam taker. Accounts are provisioned by the seeding
// tool; the API never creates them.
type Respondent struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
