package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/intlakaa/pkg/seo"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// An empty id clears the tracker.
	v.RegisterValidation("trackingid", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return id == "" || seo.ValidTrackingID(id)
	})
	return v
}

// validationMessage maps the first failed rule to a user-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgInvalidBody
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Email":
		if fe.Tag() == "required" {
			return msgRequiredFields
		}
		return msgInvalidEmail
	case "Password", "NewPassword":
		switch fe.Tag() {
		case "required":
			return msgRequiredFields
		case "min":
			return msgPasswordTooShort
		case "max":
			return msgPasswordTooLong
		case "nefield":
			return msgPasswordSame
		}
	case "Role":
		return msgInvalidRole
	case "GtmID", "GaID", "FbPixel", "TiktokPixel":
		return msgInvalidTracking
	case "Token":
		return msgInviteInvalid
	}

	if fe.Tag() == "required" {
		return msgRequiredFields
	}
	return msgInvalidField
}
