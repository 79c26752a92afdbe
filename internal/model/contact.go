package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContactStore defines persistence operations for contacts. Every method is
// scoped to the owning user.
type ContactStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Contact, error)
	GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (Contact, error)
	Create(ctx context.Context, contact Contact) (Contact, error)
	Update(ctx context.Context, contact Contact) (Contact, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (Contact, error)
}

// Contact represents a stored contact entry.
type Contact struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	FirstName      string
	SecondName     string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalData *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ContactParams contains the editable fields of a contact.
type ContactParams struct {
	FirstName      string
	SecondName     string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalData *string
}
