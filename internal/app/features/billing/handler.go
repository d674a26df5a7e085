// internal/app/features/billing/handler.go
package billing

import (
	"crypto/subtle"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler receives billing provider webhooks and mirrors subscription
// state onto teams. The provider fields are stored opaquely; nothing in
// the app interprets them beyond display and this sync.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
	AuditLog *auditlog.Logger

	// WebhookSecret authenticates deliveries. Requests without the
	// matching secret are rejected before any parsing.
	WebhookSecret string
}

func New(db *mongo.Database, webhookSecret string, errLog *apierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		ErrLog:        errLog,
		AuditLog:      audit,
		WebhookSecret: webhookSecret,
	}
}

// verifySignature checks the shared-secret header in constant time.
func (h *Handler) verifySignature(r *http.Request) bool {
	if h.WebhookSecret == "" {
		return false
	}
	got := r.Header.Get("X-Webhook-Secret")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.WebhookSecret)) == 1
}
