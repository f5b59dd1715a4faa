// Package validation holds the submission rules for the login, register and
// booking forms. Every rule runs before any identity or storage call, and a
// failing form is rejected as a whole.
package validation

import (
	"errors"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field (its JSON name) to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsErrors extracts field errors from err.
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Validator runs the form rules.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom password and booking rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("hasupper", containsRune(isASCIIUpper))
	_ = v.RegisterValidation("haslower", containsRune(isASCIILower))
	_ = v.RegisterValidation("webscheme", webScheme)
	v.RegisterStructValidation(bookingQuantityBounds, BookingForm{})
	return &Validator{validate: v}
}

// Validate checks a form struct and returns Errors when any rule fails.
func (v *Validator) Validate(form any) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func containsRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if pred(r) {
				return true
			}
		}
		return false
	}
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }

// webScheme limits URLs to ones a browser can load as an image: http, https
// or ftp with a host.
func webScheme(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return true
	}
	return false
}

func message(fe validator.FieldError) string {
	form := strings.SplitN(fe.StructNamespace(), ".", 2)[0]
	if msg, ok := messages[form+"."+fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

var messages = map[string]string{
	"LoginForm.Email.required":    "Email required",
	"LoginForm.Email.email":       "Valid email required",
	"LoginForm.Password.required": "Password required",
	"LoginForm.Password.min":      "Password must be at least 6 characters",

	"RegisterForm.Name.required":            "Name is required",
	"RegisterForm.Email.required":           "Email is required",
	"RegisterForm.Email.email":              "Invalid email",
	"RegisterForm.PhotoURL.required":        "Photo URL is required",
	"RegisterForm.PhotoURL.url":             "Must be a valid URL",
	"RegisterForm.PhotoURL.webscheme":       "Must be a valid URL",
	"RegisterForm.Role.required":            "Role is required",
	"RegisterForm.Role.oneof":               "Select a valid role",
	"RegisterForm.Password.required":        "Password is required",
	"RegisterForm.Password.min":             "Password must be at least 6 characters",
	"RegisterForm.Password.hasupper":        "Password must contain an uppercase letter",
	"RegisterForm.Password.haslower":        "Password must contain a lowercase letter",
	"RegisterForm.ConfirmPassword.required": "Confirm Password is required",
	"RegisterForm.ConfirmPassword.eqfield":  "Passwords do not match",

	"BookingForm.FirstName.required":       "First name required",
	"BookingForm.LastName.required":        "Last name required",
	"BookingForm.Quantity.required":        "Quantity required",
	"BookingForm.Quantity.min_order":       "Cannot be less than minimum order",
	"BookingForm.Quantity.available":       "Cannot exceed available quantity",
	"BookingForm.ContactNumber.required":   "Phone number required",
	"BookingForm.DeliveryAddress.required": "Address required",

	"ThemeForm.Theme.required": "Theme is required",
	"ThemeForm.Theme.oneof":    "Theme must be dark or light",
}
