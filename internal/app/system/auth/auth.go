// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/scribehq/scribe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// UserFetcher loads a fresh user document for a verified credential. It
// returns (nil, nil) when the id does not resolve to a live account, which
// includes soft-deleted users. Fetching per request means role changes and
// account deletion take effect immediately.
type UserFetcher interface {
	FetchByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// SessionManager resolves request credentials to users and issues both
// credential kinds this app supports: a browser session cookie and a Bearer
// token for API callers. Resolution always fails open to anonymous; a bad or
// expired credential is the same as no credential.
type SessionManager struct {
	store    *sessions.CookieStore
	name     string
	jwtKey   []byte
	tokenTTL time.Duration
	fetcher  UserFetcher
	logger   *zap.Logger
}

// NewSessionManager builds a SessionManager. sessionKey signs the cookie
// store and jwtKey signs Bearer tokens. The `secure` flag controls Secure
// cookies and SameSite mode, as in production behind HTTPS.
func NewSessionManager(sessionKey, name, domain string, secure bool, jwtKey string, tokenTTL time.Duration, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if jwtKey == "" {
		// Tokens still verify within this process lifetime but not across a
		// restart. Acceptable for dev only.
		jwtKey = string(securecookie.GenerateRandomKey(32))
		logger.Warn("jwt key is empty; generated an ephemeral key")
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	return &SessionManager{
		store:    store,
		name:     name,
		jwtKey:   []byte(jwtKey),
		tokenTTL: tokenTTL,
		logger:   logger,
	}, nil
}

// SetUserFetcher wires the store used to re-load users per request.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

/*─────────────────────────────────────────────────────────────────────────────*
| Credential resolution                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ResolveToken maps a Bearer token to a live user. It returns (nil, nil) —
// anonymous, not an error — when the token is missing, unverifiable,
// expired, or references a user that no longer exists or is soft-deleted.
// Only fetcher failures surface as errors. No side effects; idempotent.
func (sm *SessionManager) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return sm.jwtKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, nil
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return nil, nil
	}
	return sm.fetchLive(ctx, id)
}

// resolveCookie maps the request's session cookie to a live user, with the
// same fail-open contract as ResolveToken.
func (sm *SessionManager) resolveCookie(r *http.Request) (*models.User, error) {
	sess, _ := sm.store.Get(r, sm.name)
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil, nil
	}
	hex, _ := sess.Values[userIDKey].(string)
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, nil
	}
	return sm.fetchLive(r.Context(), id)
}

func (sm *SessionManager) fetchLive(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if sm.fetcher == nil {
		return nil, nil
	}
	u, err := sm.fetcher.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.DeletedAt != nil {
		return nil, nil
	}
	return u, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Token & cookie issuance                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// MintToken issues a signed Bearer token for the user.
func (sm *SessionManager) MintToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sm.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.jwtKey)
}

// SignIn writes the session cookie for the user.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, user *models.User) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = user.ID.Hex()
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware & context access                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the resolved user and a found flag. A false flag means
// the request is anonymous.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok && u != nil
}

// LoadSessionUser resolves the request credential once and injects the user
// into the request context. A Bearer token wins over the session cookie when
// both are present. Storage failures during resolution are logged and the
// request continues as anonymous, so public reads keep working during a
// partial outage.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := sm.resolve(r)
		if err != nil {
			sm.logger.Error("credential resolution failed", zap.Error(err))
		}
		if user != nil {
			r = withUser(r, user)
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) resolve(r *http.Request) (*models.User, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		token := strings.TrimPrefix(h, "Bearer ")
		if token == h {
			// Some other scheme; not our credential.
			return nil, nil
		}
		return sm.ResolveToken(r.Context(), strings.TrimSpace(token))
	}
	return sm.resolveCookie(r)
}

// RequireSignedIn ensures a user was resolved, answering 401 otherwise.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user into the request context. Test helper only.
func WithTestUser(r *http.Request, u *models.User) *http.Request {
	return withUser(r, u)
}
