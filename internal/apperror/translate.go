package apperror

import (
	"errors"
	"fmt"

	"github.com/jbweber/homelab/customercare/internal/dto"
)

// Kind classifies an error for the boundary layer.
type Kind string

const (
	KindValidation         Kind = "validation_failed"
	KindInvalidArgument    Kind = "invalid_argument"
	KindNotFound           Kind = "not_found"
	KindDeviceLimitReached Kind = "device_limit_reached"
	KindUnhandled          Kind = "internal_error"
)

// Translation is the boundary view of an error.
type Translation struct {
	Kind Kind
	Body dto.ErrorResponse
}

// Translate renders err into the uniform error body. Detail about unhandled
// errors is only included when debug is set.
func Translate(err error, debug bool) Translation {
	var (
		validationErr *ValidationError
		invalidArgErr *InvalidArgumentError
		notFoundErr   *NotFoundError
		limitErr      *DeviceLimitReachedError
	)

	switch {
	case errors.As(err, &validationErr):
		info := make(map[string]string, len(validationErr.FieldErrors))
		for k, v := range validationErr.FieldErrors {
			info[k] = v
		}
		return Translation{
			Kind: KindValidation,
			Body: dto.ErrorResponse{Summary: "Validation failed", AdditionalInfo: info},
		}

	case errors.As(err, &invalidArgErr):
		return Translation{
			Kind: KindInvalidArgument,
			Body: dto.ErrorResponse{
				Summary:        "Invalid argument",
				Description:    fmt.Sprintf("%s %s", invalidArgErr.Parameter, invalidArgErr.Reason),
				AdditionalInfo: map[string]string{invalidArgErr.Parameter: invalidArgErr.Reason},
			},
		}

	case errors.As(err, &notFoundErr):
		summary := "Customer not found"
		if notFoundErr.Resource == ResourceDevice {
			summary = "Device not found"
		}
		return Translation{
			Kind: KindNotFound,
			Body: dto.ErrorResponse{
				Summary:     summary,
				Description: fmt.Sprintf("Could not find %s with id %s", notFoundErr.Resource, notFoundErr.ID),
			},
		}

	case errors.As(err, &limitErr):
		return Translation{
			Kind: KindDeviceLimitReached,
			Body: dto.ErrorResponse{
				Summary:     "Device limit reached",
				Description: limitErr.Error(),
				AdditionalInfo: map[string]any{
					"limit":      limitErr.Limit,
					"customerId": limitErr.CustomerID.String(),
				},
			},
		}
	}

	body := dto.ErrorResponse{Summary: "Internal error"}
	if debug && err != nil {
		body.Description = err.Error()
		body.AdditionalInfo = Chain(err)
	}
	return Translation{Kind: KindUnhandled, Body: body}
}

// Chain lists the messages of err and every error it wraps, outermost first.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, fmt.Sprintf("%T: %s", err, err.Error()))
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				chain = append(chain, Chain(e)...)
			}
			break
		}
		err = errors.Unwrap(err)
	}
	return chain
}
