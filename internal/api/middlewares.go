package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/golang-jwt/jwt/v4/request"

	"github.com/samandr77/microservices/swish/internal/entity"
	"github.com/samandr77/microservices/swish/pkg/logger"
)

var skipLogging = map[string]struct{}{
	"/api/health": {},
}

type Middleware struct {
	jwtSecret []byte
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{
		jwtSecret: []byte(jwtSecret),
	}
}

// Log tags the request with an id and logs it once handled. Bodies are not logged: they carry payer data.
func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx = logger.WithRequestID(ctx, requestID)
		w.Header().Set("X-Request-Id", requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		if _, ok := skipLogging[r.URL.Path]; ok {
			return
		}

		slog.InfoContext(ctx, "incoming request",
			"request", fmt.Sprintf("%s %s", r.Method, r.URL.Redacted()),
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			err := recover()
			if err != nil {
				slog.ErrorContext(ctx, "recovered from panic", "error", err, "stack", string(debug.Stack()))
				SendJSONErr(ctx, w, http.StatusInternalServerError, nil, "Internal error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// BearerAuth verifies an HS256 JWT and puts its subject into the context.
func (m *Middleware) BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := request.BearerExtractor{}.ExtractToken(r)
		if err != nil {
			SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Missing or invalid token")
			return
		}

		var claims jwt.RegisteredClaims

		_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}

			return m.jwtSecret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Token expired")
			} else {
				SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Missing or invalid token")
			}

			return
		}

		if claims.Subject == "" {
			SendJSONErr(ctx, w, http.StatusUnauthorized, errors.New("token without subject"), "Missing or invalid token")
			return
		}

		ctx = entity.CtxWithSubject(ctx, claims.Subject)
		ctx = logger.WithSubject(ctx, claims.Subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
