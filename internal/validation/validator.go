package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jbweber/homelab/customercare/internal/apperror"
)

// Validator checks request shapes against their `validate` tags and
// collects every violation into one ValidationError.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the customer-care tags registered:
// notblank, id, fiscalcode, devicestatus and devicecolor.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report wire names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return IsNotBlank(fl.Field().String())
	})
	mustRegister(v, "id", func(fl validator.FieldLevel) bool {
		return IsID(fl.Field().String())
	})
	mustRegister(v, "fiscalcode", func(fl validator.FieldLevel) bool {
		return IsFiscalCode(fl.Field().String())
	})
	mustRegister(v, "devicestatus", func(fl validator.FieldLevel) bool {
		return IsStatus(fl.Field().String())
	})
	mustRegister(v, "devicecolor", func(fl validator.FieldLevel) bool {
		return IsColor(fl.Field().String())
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validation: registering " + tag + ": " + err.Error())
	}
}

// Struct validates s. It returns nil, an *apperror.ValidationError listing
// all field violations, or an *apperror.InvalidArgumentError when s is nil.
func (v *Validator) Struct(s any) error {
	if s == nil {
		return apperror.InvalidArgument("request", "is nil")
	}
	rv := reflect.ValueOf(s)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return apperror.InvalidArgument("request", "is nil")
	}

	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := apperror.NewValidationError()
	for _, fe := range fieldErrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath drops the root struct name from the namespace, so a field of a
// nested struct is reported as "outer.inner".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "must not be blank"
	case "id":
		return "must be a valid UUID"
	case "fiscalcode":
		return `must match "^[A-Za-z0-9]{16}$"`
	case "devicestatus":
		return statusMessage
	case "devicecolor":
		return `must match "^#?[0-9a-f]{6}$" (case insensitive)`
	default:
		return "failed on the '" + fe.Tag() + "' constraint"
	}
}
