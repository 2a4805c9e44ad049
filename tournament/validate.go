/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tournament

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mikeb26/bracketodds/bracket"
	"github.com/mikeb26/bracketodds/internal"
)

// newValidator returns a validator that knows the document's custom tags.
// Field names in errors are the document's own keys.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "pow2", validatePow2)
	mustRegister(v, "structure", validateStructure)
	mustRegister(v, "tdate", validateDate)

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("tournament: registering %v validation: %v", tag, err))
	}
}

func validatePow2(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return true
		}
		f = f.Elem()
	}
	n := f.Int()
	return n <= bracket.MaxSize && bracket.ValidSize(int(n))
}

func validateStructure(fl validator.FieldLevel) bool {
	_, err := ParseStructure(fl.Field().String())
	return err == nil
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := internal.ParseDateOrZero(fl.Field().String())
	return err == nil
}

// validateDocument reports every failing field, each wrapping the sentinel
// for its kind of failure.
func validateDocument(v *validator.Validate, doc *document) error {
	err := v.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fieldError(fe))
	}
	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	// drop the root struct name: "document.Players[Ser].draw" -> "Players[Ser].draw"
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "pow2":
		return fmt.Errorf("%w: %v = %v", ErrInvalidSize, field, derefValue(fe.Value()))
	case "structure":
		return fmt.Errorf("%w: %v = %q", ErrUnknownStructure, field, fe.Value())
	case "tdate":
		return fmt.Errorf("%w: %v = %q", ErrInvalidDate, field, fe.Value())
	case "required":
		return fmt.Errorf("%w: %v", ErrMissingField, field)
	}
	if fe.StructField() == "Players" {
		return ErrNoPlayers
	}
	return fmt.Errorf("%w: %v = %v must satisfy %v=%v", ErrInvalidField, field,
		derefValue(fe.Value()), fe.Tag(), fe.Param())
}

func derefValue(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}
