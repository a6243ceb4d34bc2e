// Package middleware validates JSON request bodies at HTTP boundaries.
// Framework adapters live in the gin and echo submodules.
package middleware

import (
	"context"
	"errors"
	"net/http"

	gojson "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	sp "github.com/reoring/smartparams"
)

type ctxKeyPayload struct{}

// ContextWithPayload attaches a validated payload to the context.
func ContextWithPayload(ctx context.Context, p *sp.Payload) context.Context {
	return context.WithValue(ctx, ctxKeyPayload{}, p)
}

// PayloadFromContext retrieves the payload stored by ContextWithPayload.
func PayloadFromContext(ctx context.Context) (*sp.Payload, bool) {
	p, ok := ctx.Value(ctxKeyPayload{}).(*sp.Payload)
	return p, ok && p != nil
}

// DefaultValidateOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies are capped at 1 MiB
func DefaultValidateOpt(namespace string) sp.ValidateOpt {
	return sp.ValidateOpt{
		Namespace:  namespace,
		Strictness: sp.Strictness{OnDuplicateKey: sp.Error},
		MaxBytes:   1 << 20,
	}
}

// ErrorPayload shapes failures for JSON responses.
func ErrorPayload(fs sp.Failures) map[string]any {
	return map[string]any{"failures": fs.AsJSON()}
}

// Status maps a validation error to an HTTP status and response body.
// Failures are 422, undecodable bodies 400, anything else 500.
func Status(err error) (int, map[string]any) {
	if fs, ok := sp.AsFailures(err); ok {
		return http.StatusUnprocessableEntity, ErrorPayload(fs)
	}
	var de *sp.DecodeError
	if errors.As(err, &de) {
		return http.StatusBadRequest, map[string]any{"error": map[string]any{
			"code":    de.Code,
			"pointer": de.Pointer,
			"message": de.Error(),
		}}
	}
	return http.StatusInternalServerError, map[string]any{"error": map[string]any{"message": err.Error()}}
}

// ValidateJSON validates the request body against the namespace selected by
// opt and stores the payload in the request context before calling next.
func ValidateJSON(s *sp.Schema, opt sp.ValidateOpt, next http.Handler) http.Handler {
	log := opt.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := sp.ValidateSource(r.Context(), s, sp.JSONReader(r.Body), opt)
		if err != nil {
			code, body := Status(err)
			log.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": code,
			}).Debug("rejected request body")
			WriteJSON(w, code, body)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPayload(r.Context(), p)))
	})
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	b, err := gojson.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}
