// Package validation checks request input against struct tags.
//
// Struct tag validation uses go-playground/validator with the extra
// "safename" tag for single path components:
//
//	type Form struct {
//	    OutputName string `json:"output_filename" validate:"omitempty,max=255,safename"`
//	}
//	err := validation.Validate(form)
package validation
