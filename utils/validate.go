package utils

import (
	"medirural/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError is a single field/message pair returned to the client when
// checkout validation fails.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateShipping checks the shipping block of an order against the checkout
// rules: all fields present, a well-formed email, a 10-digit phone and a
// 6-digit pincode. It returns one entry per failing field, or nil when the
// payload is valid.
func ValidateShipping(s models.ShippingInfo) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "shipping", Message: err.Error()}}
	}

	var fieldErrors []FieldError
	for _, e := range verrs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldName(e.StructField()),
			Message: messageFor(e),
		})
	}
	return fieldErrors
}

func fieldName(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "Phone":
		return "phone"
	case "Address":
		return "address"
	case "City":
		return "city"
	case "State":
		return "state"
	case "Pincode":
		return "pincode"
	case "Country":
		return "country"
	}
	return structField
}

func messageFor(e validator.FieldError) string {
	switch e.StructField() {
	case "Phone":
		return "Valid 10-digit phone is required"
	case "Pincode":
		return "Valid 6-digit pincode is required"
	case "Email":
		return "Valid email is required"
	}
	return fieldName(e.StructField()) + " is required"
}
