package domain

import "time"

// Organization is the tenant that owns sites. Its identifier is immutable;
// name and email are administrative attributes the core never touches.
type Organization struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
