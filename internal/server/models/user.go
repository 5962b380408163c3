// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Password holds the bcrypt hash, never the
// plaintext. Age and Gender are optional and nil when not supplied.
type User struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	FullName  string    `json:"full_name"`
	Age       *int      `json:"age"`
	Gender    *string   `json:"gender"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
