package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jannathh/Scentify-Project/pkg/httputil"
	"github.com/jannathh/Scentify-Project/pkg/validator"
)

const maxBodyBytes = 1 << 20

var errMissingIdentity = errors.New("client identity middleware not mounted")

// decode reads and validates a JSON body, writing the 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteRequestError(w, r, err)
		return false
	}
	return true
}

// productIDParam reads the {productId} path parameter.
func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	return httputil.ParseIntParam(w, "product id", chi.URLParam(r, "productId"))
}
