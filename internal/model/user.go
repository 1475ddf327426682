package model

import "time"

// User represents an application account as stored in the `users` table.
// These structs are used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//
//	ID                – primary key identifier of the user.
//	Username          – display name.
//	Email             – unique email address.
//	PasswordHash      – bcrypt hashed password.
//	IsAdmin           – role flag; false by default.
//	ProfilePictureURL – public URL of the stored profile picture.
//	CreatedAt         – timestamp of creation.
//	UpdatedAt         – timestamp of last update.
type User struct {
	ID                uint64    // users.id
	Username          string    // users.username
	Email             string    // users.email
	PasswordHash      string    // users.password_hash
	IsAdmin           bool      // users.is_admin
	ProfilePictureURL string    // users.profile_picture_url
	CreatedAt         time.Time // users.created_at
	UpdatedAt         time.Time // users.updated_at
}
