package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/contactbook-server/internal/mocks"
	"github.com/dtroode/contactbook-server/internal/model"
	"github.com/dtroode/contactbook-server/internal/testutil"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestContact_Create(t *testing.T) {
	ctx := context.Background()
	store := servermocks.NewContactStore(t)
	svc := NewContact(store, testutil.NewFakeClock(epoch), testutil.MakeNoopLogger())
	userID := uuid.New()

	params := model.ContactParams{
		FirstName:   "John",
		SecondName:  "Doe",
		Email:       "john@example.com",
		PhoneNumber: "+380501234567",
		Birthday:    date(1990, time.May, 17),
	}

	store.On("Create", ctx, mock.MatchedBy(func(c model.Contact) bool {
		return c.ID != uuid.Nil && c.UserID == userID && c.FirstName == "John" && c.CreatedAt.Equal(epoch)
	})).Return(func(_ context.Context, c model.Contact) (model.Contact, error) {
		return c, nil
	}).Once()

	got, err := svc.Create(ctx, userID, params)
	require.NoError(t, err)
	assert.Equal(t, "Doe", got.SecondName)
	assert.Equal(t, userID, got.UserID)
}

func TestContact_NotFound(t *testing.T) {
	ctx := context.Background()
	store := servermocks.NewContactStore(t)
	svc := NewContact(store, testutil.NewFakeClock(epoch), testutil.MakeNoopLogger())
	userID, id := uuid.New(), uuid.New()

	store.On("GetByID", ctx, userID, id).Return(model.Contact{}, model.ErrNotFound).Twice()
	store.On("Delete", ctx, userID, id).Return(model.Contact{}, model.ErrNotFound).Once()

	_, err := svc.Get(ctx, userID, id)
	requireAPIError(t, err, http.StatusNotFound, "Contact not found")

	_, err = svc.Update(ctx, userID, id, model.ContactParams{FirstName: "x"})
	requireAPIError(t, err, http.StatusNotFound, "Contact not found")

	_, err = svc.Delete(ctx, userID, id)
	requireAPIError(t, err, http.StatusNotFound, "Contact not found")
}

func TestContact_Update(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewFakeClock(epoch)
	store := servermocks.NewContactStore(t)
	svc := NewContact(store, clk, testutil.MakeNoopLogger())
	userID := uuid.New()
	existing := model.Contact{ID: uuid.New(), UserID: userID, FirstName: "Old", CreatedAt: epoch, UpdatedAt: epoch}

	clk.Advance(time.Hour)
	store.On("GetByID", ctx, userID, existing.ID).Return(existing, nil).Once()
	store.On("Update", ctx, mock.MatchedBy(func(c model.Contact) bool {
		return c.ID == existing.ID && c.FirstName == "New" && c.CreatedAt.Equal(epoch) && c.UpdatedAt.Equal(epoch.Add(time.Hour))
	})).Return(func(_ context.Context, c model.Contact) (model.Contact, error) {
		return c, nil
	}).Once()

	got, err := svc.Update(ctx, userID, existing.ID, model.ContactParams{FirstName: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", got.FirstName)
}

func TestContact_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := servermocks.NewContactStore(t)
	svc := NewContact(store, testutil.NewFakeClock(epoch), testutil.MakeNoopLogger())
	userID := uuid.New()

	store.On("ListByUser", ctx, userID).Return(nil, assert.AnError).Once()

	_, err := svc.List(ctx, userID)
	require.ErrorIs(t, err, assert.AnError)
}

func TestContact_UpcomingBirthdays(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name  string
		now   time.Time
		birth map[string]time.Time
		want  []string
	}{
		{
			name: "window bounds",
			now:  time.Date(2025, time.June, 10, 15, 30, 0, 0, time.UTC),
			birth: map[string]time.Time{
				"today":     date(1990, time.June, 10),
				"in-7-days": date(1985, time.June, 17),
				"in-8-days": date(1985, time.June, 18),
				"yesterday": date(2000, time.June, 9),
				"in-3-days": date(1970, time.June, 13),
			},
			want: []string{"today", "in-3-days", "in-7-days"},
		},
		{
			name: "year wrap",
			now:  date(2025, time.December, 28),
			birth: map[string]time.Time{
				"new-year":  date(1999, time.January, 1),
				"jan-4":     date(1999, time.January, 4),
				"jan-5":     date(1999, time.January, 5),
				"dec-30":    date(1999, time.December, 30),
				"last-week": date(1999, time.December, 20),
			},
			want: []string{"dec-30", "new-year", "jan-4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := servermocks.NewContactStore(t)
			svc := NewContact(store, testutil.NewFakeClock(tt.now), testutil.MakeNoopLogger())

			var contacts []model.Contact
			for name, birthday := range tt.birth {
				contacts = append(contacts, model.Contact{ID: uuid.New(), UserID: userID, FirstName: name, Birthday: birthday})
			}
			store.On("ListByUser", ctx, userID).Return(contacts, nil).Once()

			got, err := svc.UpcomingBirthdays(ctx, userID, BirthdayWindowDays)
			require.NoError(t, err)

			names := make([]string, 0, len(got))
			for _, c := range got {
				names = append(names, c.FirstName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestNextBirthday_LeapDay(t *testing.T) {
	next := nextBirthday(date(2000, time.February, 29), date(2025, time.February, 27))
	assert.Equal(t, date(2025, time.March, 1), next)

	next = nextBirthday(date(2000, time.February, 29), date(2028, time.February, 27))
	assert.Equal(t, date(2028, time.February, 29), next)
}
