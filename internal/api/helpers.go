package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samandr77/microservices/swish/internal/entity"
)

type ErrorResponse struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

func SendJSONErr(ctx context.Context, w http.ResponseWriter, code int, originErr error, msgToSend string) {
	resp := ErrorResponse{Message: msgToSend}

	if originErr != nil {
		resp.Description = originErr.Error()

		if code >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "api error", "error", originErr.Error())
		} else {
			slog.WarnContext(ctx, "api error", "error", originErr.Error())
		}
	}

	SendJSON(ctx, w, code, resp)
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}

// sendServiceErr maps the error taxonomy to an HTTP status.
func sendServiceErr(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, entity.ErrInvalidArgument):
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, msg)
	case errors.Is(err, entity.ErrNotFound):
		SendJSONErr(ctx, w, http.StatusNotFound, err, "Payment request not found")
	case errors.Is(err, entity.ErrUnauthenticated):
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Unauthenticated")
	case errors.Is(err, entity.ErrApplication):
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, msg)
	case errors.Is(err, entity.ErrConnectivity):
		SendJSONErr(ctx, w, http.StatusServiceUnavailable, err, "Swish is unreachable")
	case errors.Is(err, entity.ErrProtocol):
		SendJSONErr(ctx, w, http.StatusBadGateway, err, "Unexpected response from Swish")
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, msg)
	}
}
