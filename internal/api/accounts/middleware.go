package accounts

import (
	"context"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/skybi/identity-server/internal/api/schema"
	"net/http"
	"strings"
	"time"
)

// HeaderActor is the header a trusted gateway uses to pass the ID of the acting account
const HeaderActor = "X-Account-Id"

type contextKey string

var contextValueActor = contextKey("actor")

// MiddlewareLogRequest writes an access log entry for every handled request
func MiddlewareLogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
		next.ServeHTTP(wrapped, request)

		log.Debug().
			Str("request_id", middleware.GetReqID(request.Context())).
			Str("method", request.Method).
			Str("path", request.URL.Path).
			Int("status", wrapped.Status()).
			Int("bytes", wrapped.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	})
}

// MiddlewareResolveActor reads the optional acting account out of the request headers and injects it into the
// request context
func (service *Service) MiddlewareResolveActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		raw := strings.TrimSpace(request.Header.Get(HeaderActor))
		if raw == "" {
			next.ServeHTTP(writer, request)
			return
		}

		actor, err := uuid.Parse(raw)
		if err != nil {
			service.writer.WriteErrors(writer, http.StatusBadRequest, schema.ErrHeaderInvalid(HeaderActor, raw))
			return
		}

		request = request.WithContext(context.WithValue(request.Context(), contextValueActor, actor))
		next.ServeHTTP(writer, request)
	})
}

// actorOf returns the acting account of a request, if known
func actorOf(request *http.Request) *uuid.UUID {
	actor, ok := request.Context().Value(contextValueActor).(uuid.UUID)
	if !ok {
		return nil
	}
	return &actor
}
