// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/scribehq/scribe/internal/app/features/accounts"
	"github.com/scribehq/scribe/internal/app/features/apierrors"
	articlesfeature "github.com/scribehq/scribe/internal/app/features/articles"
	authgooglefeature "github.com/scribehq/scribe/internal/app/features/authgoogle"
	billingfeature "github.com/scribehq/scribe/internal/app/features/billing"
	healthfeature "github.com/scribehq/scribe/internal/app/features/health"
	taxonomyfeature "github.com/scribehq/scribe/internal/app/features/taxonomy"
	teamsfeature "github.com/scribehq/scribe/internal/app/features/teams"
	auditstore "github.com/scribehq/scribe/internal/app/store/audit"
	membershipstore "github.com/scribehq/scribe/internal/app/store/memberships"
	"github.com/scribehq/scribe/internal/app/store/oauthstate"
	userstore "github.com/scribehq/scribe/internal/app/store/users"
	"github.com/scribehq/scribe/internal/app/system/auditlog"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/authz"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Scribe wires the session manager, the
// authorization guard, and the audit logger, then mounts the feature
// routers for the JSON API.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, appCfg.JWTKey, appCfg.TokenTTL, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request so account
	// deletion and profile changes take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Every mutating or non-public-read operation goes through the guard;
	// nothing caches authorization decisions across requests.
	guard := authz.NewGuard(membershipstore.New(db))

	errLog := apierrors.NewErrorLogger(logger)

	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Content: appCfg.AuditLogContent,
		Billing: appCfg.AuditLogBilling,
	})

	r := chi.NewRouter()

	// Global auth middleware: resolves the bearer token or session cookie
	// and makes the user available via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	googleHandler := authgooglefeature.NewHandler(
		db, sessionMgr, errLog, audit, oauthstate.New(db),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger)

	accountsHandler := accountsfeature.New(db, sessionMgr, errLog, audit, logger)
	r.Mount("/auth", accountsfeature.Routes(accountsHandler, googleHandler, sessionMgr))

	// Team
	teamsHandler := teamsfeature.New(db, errLog, logger)
	r.Mount("/team", teamsfeature.Routes(teamsHandler, sessionMgr))

	// Content
	articlesHandler := articlesfeature.New(db, guard, errLog, audit, logger)
	r.Mount("/articles", articlesfeature.Routes(articlesHandler, sessionMgr))

	taxonomyHandler := taxonomyfeature.New(db, guard, errLog, audit, logger)
	r.Mount("/categories", taxonomyfeature.CategoryRoutes(taxonomyHandler, sessionMgr))
	r.Mount("/tags", taxonomyfeature.TagRoutes(taxonomyHandler, sessionMgr))

	// Billing
	billingHandler := billingfeature.New(db, appCfg.BillingWebhookSecret, errLog, audit, logger)
	r.Mount("/billing", billingfeature.Routes(billingHandler))

	return r, nil
}
