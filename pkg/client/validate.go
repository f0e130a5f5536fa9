package client

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type newPassword struct {
	Password string `validate:"required,min=6,max=72"`
}

type emailOnly struct {
	Email string `validate:"required,email,max=255"`
}

// check validates v and maps the first failure to a localized error.
func check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid(msgRequired)
	}
	fe := verrs[0]
	switch {
	case fe.Tag() == "required":
		return invalid(msgRequired)
	case fe.Field() == "Email":
		return invalid(msgInvalidEmail)
	case fe.Tag() == "min":
		return invalid(msgPasswordShort)
	case fe.Tag() == "max":
		return invalid(msgPasswordLong)
	}
	return invalid(msgRequired)
}

func checkCredentials(email, password string) error {
	return check(credentials{Email: strings.TrimSpace(email), Password: password})
}

func checkNewPassword(password string) error {
	return check(newPassword{Password: password})
}

func checkEmail(email string) error {
	return check(emailOnly{Email: strings.TrimSpace(email)})
}

func checkLead(in LeadInput) error {
	return check(in)
}
