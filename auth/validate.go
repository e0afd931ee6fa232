package auth

import (
	"github.com/go-playground/validator/v10"

	"github.com/user/courseboard-go/apperror"
)

// validate backs the email-shape check below. A single instance is safe for
// concurrent use.
var validate = validator.New()

// registrationRule couples a registration field with the predicate it must
// satisfy and the message reported when it does not.
type registrationRule struct {
	field   string
	message string
	ok      func(req *RegisterRequest) bool
}

// registrationRules is evaluated in order, eagerly, before any persistence
// attempt. Every failed rule contributes its message, so the caller sees all
// violations at once.
var registrationRules = []registrationRule{
	{
		field:   "firstName",
		message: "First name is required",
		ok:      func(req *RegisterRequest) bool { return req.FirstName != "" },
	},
	{
		field:   "lastName",
		message: "Last name is required",
		ok:      func(req *RegisterRequest) bool { return req.LastName != "" },
	},
	{
		field:   "email",
		message: "Email is not valid",
		ok:      func(req *RegisterRequest) bool { return validate.Var(req.Email, "required,email") == nil },
	},
	{
		field:   "username",
		message: "Username is required",
		ok:      func(req *RegisterRequest) bool { return req.Username != "" },
	},
	{
		field:   "password",
		message: "Password is required",
		ok:      func(req *RegisterRequest) bool { return req.Password != "" },
	},
	{
		field:   "confirm",
		message: "Passwords do not match",
		ok:      func(req *RegisterRequest) bool { return req.Confirm == req.Password },
	},
}

// validateRegistration checks req against the rule table. It returns nil when
// every rule passes, otherwise a ValidationError listing each failed field's
// message.
func validateRegistration(req *RegisterRequest) error {
	var details []string
	for _, rule := range registrationRules {
		if !rule.ok(req) {
			details = append(details, rule.message)
		}
	}
	if len(details) > 0 {
		return apperror.NewValidationError("unable to register new user", details)
	}
	return nil
}
