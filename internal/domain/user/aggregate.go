package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/oms-backend/internal/domain/aggregate"
	"github.com/example/oms-backend/internal/infrastructure/store"
)

const AggregateType = "user"

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

// User is the write-side aggregate, rebuilt by replaying its events.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignedIn time.Time `json:"last_signed_in"`
	Version      int       `json:"version"`
}

func (u *User) GetID() string    { return u.ID }
func (u *User) GetVersion() int  { return u.Version }
func (u *User) SetVersion(v int) { u.Version = v }

func (u *User) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventUserRegistered:
		var e UserRegistered
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		u.ID = e.UserID
		u.Email = e.Email
		u.PasswordHash = e.PasswordHash
		u.Name = e.Name
		u.Role = e.Role
		u.CreatedAt = e.CreatedAt
	case EventUserSignedIn:
		var e UserSignedIn
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		u.LastSignedIn = e.SignedAt
	}
	u.Version = event.Version
	return nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Service coordinates user commands against the event store.
type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(eventStore store.EventStoreInterface) *Service {
	return &Service{eventStore: eventStore}
}

func (s *Service) Register(ctx context.Context, email, passwordHash, name, role string) (*User, error) {
	if role == "" {
		role = RoleCustomer
	}
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	userID := uuid.New().String()
	event := UserRegistered{
		UserID:       userID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.eventStore.Append(ctx, userID, AggregateType, EventUserRegistered, event, 0); err != nil {
		return nil, fmt.Errorf("append %s: %w", EventUserRegistered, err)
	}

	u := &User{}
	u.ID = userID
	u.Email = email
	u.PasswordHash = passwordHash
	u.Name = name
	u.Role = role
	u.CreatedAt = event.CreatedAt
	u.Version = 1
	return u, nil
}

func (s *Service) RecordSignIn(ctx context.Context, userID, ipAddress, userAgent string) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	event := UserSignedIn{
		UserID:    userID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		SignedAt:  time.Now().UTC(),
	}
	if _, err := s.eventStore.Append(ctx, userID, AggregateType, EventUserSignedIn, event, u.Version); err != nil {
		return fmt.Errorf("append %s: %w", EventUserSignedIn, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	u := &User{}
	if err := aggregate.LoadAggregate(ctx, s.eventStore, userID, u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, ErrUserNotFound
	}
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, u, AggregateType); err != nil {
		log.Printf("[User] Failed to snapshot %s: %v", userID, err)
	}
	return u, nil
}
