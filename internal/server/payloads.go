package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/goliatone/go-auth-server/internal/auth"
)

// FullnamePayload mirrors the nested fullname document on the wire
type FullnamePayload struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Validate will run validation rules
func (p FullnamePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(
			&p.Firstname,
			validation.Required,
			validation.Length(3, 0),
		),
	)
}

// RegisterRequest payload
type RegisterRequest struct {
	Fullname FullnamePayload `json:"fullname"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 0),
		),
		validation.Field(&r.Fullname),
	)
}

// Input converts the payload into the authenticator's registration input
func (r RegisterRequest) Input() auth.RegisterInput {
	return auth.RegisterInput{
		FirstName: r.Fullname.Firstname,
		LastName:  r.Fullname.Lastname,
		Email:     r.Email,
		Password:  r.Password,
	}
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 0),
		),
	)
}

// UserView is the redacted user representation returned by login:
// id, name, and email only.
type UserView struct {
	ID       string        `json:"id"`
	Fullname auth.Fullname `json:"fullname"`
	Email    string        `json:"email"`
}

// NewUserView builds the redacted view for the given user
func NewUserView(user *auth.User) UserView {
	return UserView{
		ID:       user.ID.Hex(),
		Fullname: user.Fullname,
		Email:    user.Email,
	}
}
