package handler

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"

	"github.com/dtroode/contactbook-server/internal/model"
)

// DefaultPhoneRegion is used to parse phone numbers written without a
// country code.
const DefaultPhoneRegion = "UA"

const birthdayLayout = "2006-01-02"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate caps passwords at 72 bytes, the most bcrypt will hash.
func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 50), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
	)
}

type loginRequest struct {
	Username string
	Password string
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r refreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type emailRequest struct {
	Email string `json:"email"`
}

func (r emailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r resetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
	)
}

type contactRequest struct {
	FirstName      string  `json:"first_name"`
	SecondName     string  `json:"second_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	Birthday       string  `json:"birthday"`
	AdditionalData *string `json:"additional_data"`
}

func (r contactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.SecondName, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&r.PhoneNumber, validation.Required, validation.Length(1, 13), validation.By(validPhone)),
		validation.Field(&r.Birthday, validation.Required, validation.Date(birthdayLayout)),
	)
}

func (r contactRequest) params() model.ContactParams {
	birthday, _ := time.Parse(birthdayLayout, r.Birthday)
	return model.ContactParams{
		FirstName:      r.FirstName,
		SecondName:     r.SecondName,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		Birthday:       birthday,
		AdditionalData: r.AdditionalData,
	}
}

func validPhone(value interface{}) error {
	s, _ := value.(string)
	num, err := phonenumbers.Parse(s, DefaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

type contactResponse struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	SecondName     string  `json:"second_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	Birthday       string  `json:"birthday"`
	AdditionalData *string `json:"additional_data"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func newContactResponse(c model.Contact) contactResponse {
	return contactResponse{
		ID:             c.ID.String(),
		FirstName:      c.FirstName,
		SecondName:     c.SecondName,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		Birthday:       c.Birthday.Format(birthdayLayout),
		AdditionalData: c.AdditionalData,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
}

func newContactResponses(contacts []model.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, newContactResponse(c))
	}
	return out
}
