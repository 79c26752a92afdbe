package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/contactbook-server/internal/api/http/response"
	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/logger"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

func handleError(w http.ResponseWriter, err error, logger *logger.Logger) {
	response.Error(w, err, logger)
}

// decodeJSON reads the request body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apierror.New(http.StatusRequestEntityTooLarge, "request body too large", err)
		}
		return apierror.NewErrValidation("invalid request body")
	}
	return nil
}

type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the body into req and runs its validation rules.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req validatable) error {
	if err := decodeJSON(w, r, req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return apierror.NewErrValidation(err.Error())
	}
	return nil
}
