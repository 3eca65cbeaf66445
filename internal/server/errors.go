package server

import (
	"errors"

	kerrors "github.com/go-kratos/kratos/v2/errors"

	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
)

// toHTTPError maps a structured error onto the kratos error carrying the
// matching HTTP status. Kratos errors pass through.
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}
	var ke *kerrors.Error
	if errors.As(err, &ke) {
		return ke
	}

	code := apperrors.CodeOf(err)
	reason, msg := string(code), err.Error()
	var se *apperrors.StructuredError
	if errors.As(err, &se) {
		msg = se.Message
	}

	switch code {
	case apperrors.ErrCodeNotFound:
		return kerrors.NotFound(reason, msg)
	case apperrors.ErrCodeInvalidRequest:
		return kerrors.BadRequest(reason, msg)
	case apperrors.ErrCodeUnauthorized:
		return kerrors.Unauthorized(reason, msg)
	case apperrors.ErrCodeRateLimitExceeded:
		return kerrors.New(429, reason, msg)
	case apperrors.ErrCodeTimeout:
		return kerrors.GatewayTimeout(reason, msg)
	case apperrors.ErrCodeUnavailable:
		return kerrors.ServiceUnavailable(reason, msg)
	default:
		return kerrors.InternalServer(reason, msg)
	}
}
