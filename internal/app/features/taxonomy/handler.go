// internal/app/features/taxonomy/handler.go
package taxonomy

import (
	"errors"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/system/auditlog"
	"github.com/scribehq/scribe/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the category and tag endpoints. Both resources share one
// handler because their operations are identical apart from the collection.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Guard    *authz.Guard
}

func New(db *mongo.Database, guard *authz.Guard, errLog *apierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Guard:    guard,
	}
}

func (h *Handler) renderGuardError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		apierrors.Unauthorized(w)
	case errors.Is(err, authz.ErrForbidden):
		apierrors.Forbidden(w)
	default:
		h.ErrLog.LogServerError(w, r, operation, err)
	}
}

// createRequest is the shared POST body for categories and tags.
type createRequest struct {
	TeamID string `json:"team_id" validate:"required,objectid" label:"Team"`
	Name   string `json:"name" validate:"required,min=2,max=100" label:"Name"`
}
