package errors

import (
	"errors"
	"net/http"

	"csvviz/domain/core"
)

// HTTPStatus maps an error to the status code both HTTP surfaces report.
// Domain errors are checked first since they may be wrapped in an AppError.
func HTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case core.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEmptyColumn), errors.Is(err, core.ErrUnclassifiable), errors.Is(err, core.ErrOutOfRange):
		return http.StatusUnprocessableEntity
	case core.IsUserError(err):
		return http.StatusBadRequest
	}

	switch GetCode(err) {
	case CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text shown to clients. Request errors are reported
// verbatim; anything else is hidden behind the status text.
func PublicMessage(err error) string {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
