package validation

import "github.com/go-playground/validator/v10"

// LoginForm is the email/password sign-in submission.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterForm is the account creation submission.
type RegisterForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhotoURL        string `json:"photoURL" validate:"required,url,webscheme"`
	Role            string `json:"role" validate:"required,oneof=buyer manager"`
	Password        string `json:"password" validate:"required,min=6,hasupper,haslower"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// BookingForm is an order request for one product. MinOrder and Available
// come from the product, not from the client.
type BookingForm struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required"`
	ContactNumber   string `json:"contactNumber" validate:"required"`
	DeliveryAddress string `json:"deliveryAddress" validate:"required"`
	Notes           string `json:"notes"`

	MinOrder  int `json:"-"`
	Available int `json:"-"`
}

func bookingQuantityBounds(sl validator.StructLevel) {
	form := sl.Current().Interface().(BookingForm)
	if form.Quantity == 0 {
		return
	}
	switch {
	case form.Quantity < form.MinOrder:
		sl.ReportError(form.Quantity, "quantity", "Quantity", "min_order", "")
	case form.Quantity > form.Available:
		sl.ReportError(form.Quantity, "quantity", "Quantity", "available", "")
	}
}

// ThemeForm is the stored colour scheme preference.
type ThemeForm struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}
