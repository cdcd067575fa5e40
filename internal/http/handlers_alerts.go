package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
)

// AlertService is the dispatcher surface exposed over HTTP.
type AlertService interface {
	Dispatch(ctx context.Context, req model.AlertRequest) (*model.DeliveryReport, error)
	DeliveryLog(ctx context.Context) ([]model.DeliveryReport, error)
	QueryLog(ctx context.Context, expr string) (any, error)
	Status(ctx context.Context) (model.Status, error)
}

// AlertHandlers serves the alert dispatch API.
type AlertHandlers struct {
	Svc          AlertService
	Logger       *slog.Logger
	MaxBodyBytes int64
}

// Create dispatches an alert and returns its delivery report.
func (h *AlertHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.AlertRequest
	if !DecodeJSON(w, r, &req, h.MaxBodyBytes) {
		return
	}

	report, err := h.Svc.Dispatch(r.Context(), req)
	if err != nil {
		h.writeError(r, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// Log returns the delivery log, or the result of a JMESPath query over it.
func (h *AlertHandlers) Log(w http.ResponseWriter, r *http.Request) {
	expr := strings.TrimSpace(r.URL.Query().Get("query"))
	if expr == "" {
		reports, err := h.Svc.DeliveryLog(r.Context())
		if err != nil {
			h.writeError(r, w, err)
			return
		}
		WriteJSON(w, http.StatusOK, reports)
		return
	}

	result, err := h.Svc.QueryLog(r.Context(), expr)
	if err != nil {
		h.writeError(r, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// Status returns the dispatcher status snapshot.
func (h *AlertHandlers) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Svc.Status(r.Context())
	if err != nil {
		h.writeError(r, w, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

func (h *AlertHandlers) writeError(r *http.Request, w http.ResponseWriter, err error) {
	f := Failure{Error: err.Error(), AlertID: apperrors.GetRef(err)}

	switch {
	case apperrors.IsNotInitialized(err):
		WriteFailure(w, http.StatusServiceUnavailable, f)
	case apperrors.IsValidation(err):
		f.Field = apperrors.GetField(err)
		WriteFailure(w, http.StatusBadRequest, f)
	case apperrors.IsTimeout(err):
		WriteFailure(w, http.StatusGatewayTimeout, f)
	default:
		h.logger().ErrorContext(r.Context(), "alert api request failed",
			"path", r.URL.Path,
			"alert_id", f.AlertID,
			"error", err,
		)
		WriteFailure(w, http.StatusInternalServerError, f)
	}
}

func (h *AlertHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
