// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	membershipstore "github.com/scribehq/scribe/internal/app/store/memberships"
	"github.com/scribehq/scribe/internal/app/store/oauthstate"
	teamstore "github.com/scribehq/scribe/internal/app/store/teams"
	userstore "github.com/scribehq/scribe/internal/app/store/users"
	"github.com/scribehq/scribe/internal/app/system/auditlog"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"github.com/scribehq/scribe/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles Google OAuth sign-in.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *apierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	StateStore *oauthstate.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *apierrors.ErrorLogger,
	audit *auditlog.Logger,
	stateStore *oauthstate.Store,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		AuditLog:     audit,
		StateStore:   stateStore,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin starts the OAuth flow by redirecting to Google's consent
// screen. The state token is stored server-side for one-time use.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		apierrors.NotFound(w)
		return
	}

	state := uuid.NewString()
	returnURL := r.URL.Query().Get("return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.ErrLog.LogServerError(w, r, "google login", err)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeCallback handles the redirect back from Google: validates state,
// exchanges the code, fetches the Google profile, and signs the user in,
// creating the account and their team on first login.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		apierrors.Unauthorized(w)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		apierrors.BadRequest(w, "missing state")
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "google callback", err)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		apierrors.BadRequest(w, "invalid state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		apierrors.BadRequest(w, "missing code")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		apierrors.Unauthorized(w)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "google callback", err)
		return
	}
	if googleUser.Email == "" {
		apierrors.Unauthorized(w)
		return
	}

	user, err := h.findOrCreateUser(ctx, googleUser)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "google callback", err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.ErrLog.LogServerError(w, r, "google callback", err)
		return
	}

	h.AuditLog.GoogleLoginSuccess(ctx, r, user.ID, user.Email)

	if returnURL == "" || !strings.HasPrefix(returnURL, "/") {
		returnURL = "/"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo
// endpoint using the freshly exchanged token.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// findOrCreateUser resolves the Google profile to a local account. First
// login provisions the user and a fresh team with an owner membership,
// mirroring password signup.
func (h *Handler) findOrCreateUser(ctx context.Context, g *googleUserInfo) (*models.User, error) {
	users := userstore.New(h.DB)

	email := strings.TrimSpace(strings.ToLower(g.Email))
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	name := g.Name
	if name == "" {
		name = email
	}
	created, err := users.Create(ctx, models.User{
		Name:       name,
		Email:      email,
		AuthMethod: "google",
	})
	if err != nil {
		// Lost a race with a concurrent first login for the same address.
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return users.GetByEmail(ctx, email)
		}
		return nil, err
	}

	team, err := teamstore.New(h.DB).Create(ctx, name+"'s Team")
	if err != nil {
		return nil, err
	}
	if err := membershipstore.New(h.DB).Add(ctx, created.ID, team.ID, models.RoleOwner); err != nil {
		return nil, err
	}
	return &created, nil
}
