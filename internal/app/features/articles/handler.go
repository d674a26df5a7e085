// internal/app/features/articles/handler.go
package articles

import (
	"errors"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/system/auditlog"
	"github.com/scribehq/scribe/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the article endpoints (list, create, view, update, delete).
//
// It is constructed once at startup in bootstrap, using the shared Mongo
// database handle and logger. Stores are created per request from the
// database handle, following the rest of the app.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Guard    *authz.Guard
}

// New constructs a Handler bound to the given Mongo database and logger.
func New(db *mongo.Database, guard *authz.Guard, errLog *apierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Guard:    guard,
	}
}

// renderGuardError maps an authorization failure to its response. Other
// errors are storage failures and become a logged 500.
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
