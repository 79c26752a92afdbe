package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/clock"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
)

// BirthdayWindowDays is how far ahead UpcomingBirthdays looks by default.
const BirthdayWindowDays = 7

// Contact manages the contact book of a single user.
type Contact struct {
	contacts model.ContactStore
	clock    clock.Clock
	logger   *logger.Logger
}

func NewContact(contacts model.ContactStore, clk clock.Clock, logger *logger.Logger) *Contact {
	return &Contact{contacts: contacts, clock: clk, logger: logger}
}

func (s *Contact) List(ctx context.Context, userID uuid.UUID) ([]model.Contact, error) {
	contacts, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (s *Contact) Get(ctx context.Context, userID, id uuid.UUID) (model.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, userID, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Contact{}, apierror.NewErrContactNotFound()
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

func (s *Contact) Create(ctx context.Context, userID uuid.UUID, params model.ContactParams) (model.Contact, error) {
	now := s.clock.Now()
	contact, err := s.contacts.Create(ctx, applyParams(model.Contact{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, params))
	if err != nil {
		s.logger.Error("Contact service: failed to create contact",
			"user_id", userID,
			"error", err.Error())
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Debug("Contact service: contact created",
		"user_id", userID,
		"contact_id", contact.ID)

	return contact, nil
}

func (s *Contact) Update(ctx context.Context, userID, id uuid.UUID, params model.ContactParams) (model.Contact, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return model.Contact{}, err
	}

	updated := applyParams(existing, params)
	updated.UpdatedAt = s.clock.Now()

	contact, err := s.contacts.Update(ctx, updated)
	if errors.Is(err, model.ErrNotFound) {
		return model.Contact{}, apierror.NewErrContactNotFound()
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}

	return contact, nil
}

// Delete removes the contact and returns it as it was before removal.
func (s *Contact) Delete(ctx context.Context, userID, id uuid.UUID) (model.Contact, error) {
	contact, err := s.contacts.Delete(ctx, userID, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Contact{}, apierror.NewErrContactNotFound()
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to delete contact: %w", err)
	}
	return contact, nil
}

// UpcomingBirthdays returns contacts whose next birthday falls within the
// next days days, today included, ordered by that date.
func (s *Contact) UpcomingBirthdays(ctx context.Context, userID uuid.UUID, days int) ([]model.Contact, error) {
	contacts, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	last := today.AddDate(0, 0, days)

	type upcoming struct {
		contact model.Contact
		next    time.Time
	}

	var found []upcoming
	for _, c := range contacts {
		next := nextBirthday(c.Birthday, today)
		if !next.After(last) {
			found = append(found, upcoming{contact: c, next: next})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].next.Before(found[j].next)
	})

	result := make([]model.Contact, 0, len(found))
	for _, u := range found {
		result = append(result, u.contact)
	}

	return result, nil
}

// nextBirthday returns the first anniversary of birthday on or after today.
// February 29 rolls over to March 1 in non-leap years.
func nextBirthday(birthday, today time.Time) time.Time {
	next := time.Date(today.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, today.Location())
	if next.Before(today) {
		next = time.Date(today.Year()+1, birthday.Month(), birthday.Day(), 0, 0, 0, 0, today.Location())
	}
	return next
}

func applyParams(c model.Contact, p model.ContactParams) model.Contact {
	c.FirstName = p.FirstName
	c.SecondName = p.SecondName
	c.Email = p.Email
	c.PhoneNumber = p.PhoneNumber
	c.Birthday = p.Birthday
	c.AdditionalData = p.AdditionalData
	return c
}
