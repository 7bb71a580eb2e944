package user

import "time"

const (
	EventUserRegistered = "UserRegistered"
	EventUserSignedIn   = "UserSignedIn"
)

// UserRegistered is emitted when a new user signs up
type UserRegistered struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSignedIn is emitted on every successful signin, for the audit trail
type UserSignedIn struct {
	UserID    string    `json:"user_id"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	SignedAt  time.Time `json:"signed_at"`
}
