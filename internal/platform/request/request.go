// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

/*
Package requestutil extracts typed data from incoming HTTP requests: JSON
bodies, router parameters, and the authenticated identity placed in the
context by the auth middleware.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabletoptracker/backend/internal/platform/apperr"
	"github.com/tabletoptracker/backend/internal/platform/ctxutil"
	"github.com/tabletoptracker/backend/internal/platform/sec"
	"github.com/tabletoptracker/backend/internal/platform/validate"
)

// maxBodyBytes caps request bodies. The largest legitimate payload is a
// post body, well under this limit.
const maxBodyBytes = 1 << 20

/*
DecodeJSON decodes the request body into target.

The body is size-capped and unknown fields are tolerated. Any decoding
failure surfaces as validate.ErrInvalidJSON so handlers map it to a single
client-facing message.
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	request.Body = http.MaxBytesReader(nil, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns the named URL path parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Claims returns the authenticated identity, or nil for an anonymous
// request. Handlers pass the result straight to the service layer, which
// owns the anonymous-access policy.
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims returns the authenticated identity or an Unauthorized error
for anonymous requests. For routes where anonymity is never acceptable.
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredUserID is a shorthand for RequiredClaims when only the subject
// ID matters.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
