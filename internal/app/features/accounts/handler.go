// internal/app/features/accounts/handler.go
package accounts

import (
	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/system/auditlog"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// bcryptCost matches the cost used everywhere passwords are hashed.
const bcryptCost = 12

// Handler owns signup, signin, and signout.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *apierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	SessionMgr *auth.SessionManager

	// Limits throttles credential attempts. Nil disables throttling.
	Limits *ratelimit.SigninLimiter
}

func New(db *mongo.Database, sm *auth.SessionManager, errLog *apierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
		SessionMgr: sm,
		Limits:     ratelimit.NewSigninLimiter(),
	}
}

// sessionResponse is the success body for signup and signin. The token is
// a bearer JWT for API clients; browser clients ride on the cookie that
// the same response sets.
type sessionResponse struct {
	User  userBody `json:"user"`
	Token string   `json:"token"`
}

type userBody struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
