// Copyright (c) 2026 Sable. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sablebot/sable/internal/platform/apperr"
	"github.com/sablebot/sable/internal/platform/ctxutil"
	"github.com/sablebot/sable/internal/platform/sec"
	"github.com/sablebot/sable/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
SnowflakeParam retrieves a named URL parameter and parses it as a snowflake id.

Returns:
  - int64: The parsed identifier
  - error: apperr.ValidationError if the parameter is not a valid integer
*/
func SnowflakeParam(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.ValidationError("Invalid \"" + name + "\" path param.")
	}

	return id, nil
}

/*
Caller extracts the authenticated caller claims from the request context.

Returns nil if the request is not authenticated.
*/
func Caller(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetCaller(request.Context())
}

/*
RequiredCaller ensures the request is authenticated and returns the caller claims.

Returns:
  - *sec.AuthClaims: The authenticated caller claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredCaller(request *http.Request) (*sec.AuthClaims, error) {

	// Get caller claims
	claims := ctxutil.GetCaller(request.Context())

	// If the caller is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}
