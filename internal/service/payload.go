package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so errors match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validatable is implemented by request payloads that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// Flag is a boolean that also accepts the 0/1 numbers sent by the park frontend.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch s := strings.TrimSpace(string(b)); s {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean value %s", s)
	}
	return nil
}

// AttractionPayload is the body of an attraction create or update.
// A non-zero ID turns the call into a full-field update.
type AttractionPayload struct {
	ID          *int64 `json:"attraction_id"`
	Name        string `json:"nom" validate:"required"`
	Description string `json:"description" validate:"required"`
	Difficulty  *int   `json:"difficulte" validate:"required,min=1,max=5"`
	Visible     *Flag  `json:"visible"`
}

// Validate checks required fields and the difficulty range.
func (p *AttractionPayload) Validate() error {
	return fromValidator(validate.Struct(p))
}

// ReviewPayload is the body of a review submission.
type ReviewPayload struct {
	AttractionID int64   `json:"attraction_id" validate:"required"`
	LastName     *string `json:"nom"`
	FirstName    string  `json:"prenom"`
	Rating       int     `json:"note" validate:"required,min=1,max=5"`
	Comment      string  `json:"commentaire"`
	Anonymous    Flag    `json:"est_anonyme"`
}

// Validate checks the attraction reference and the rating range.
func (p *ReviewPayload) Validate() error {
	return fromValidator(validate.Struct(p))
}

// LoginRequest carries admin credentials. Pointers distinguish an absent
// field from an empty one.
type LoginRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}
