// internal/app/features/accounts/signin.go
package accounts

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	userstore "github.com/scribehq/scribe/internal/app/store/users"
	"github.com/scribehq/scribe/internal/app/system/inputval"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"golang.org/x/crypto/bcrypt"
)

type signinRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// HandleSignin checks email and password and issues a session. Wrong email
// and wrong password get the same response so the endpoint cannot be used
// to probe which addresses have accounts.
func (h *Handler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if res := inputval.Validate(&req); res.HasErrors() {
		apierrors.Validation(w, res.Map())
		return
	}

	if !h.Limits.Check(r, req.Email) {
		apierrors.TooManyRequests(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := userstore.New(h.DB).GetByEmail(ctx, req.Email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signin", err)
		return
	}
	if user == nil {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, req.Email)
		apierrors.Unauthorized(w)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, user.ID, user.Email)
		apierrors.Unauthorized(w)
		return
	}

	token, err := h.SessionMgr.MintToken(user)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signin", err)
		return
	}
	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.ErrLog.LogServerError(w, r, "signin", err)
		return
	}

	h.Limits.Success(user.Email)
	h.AuditLog.LoginSuccess(ctx, r, user.ID, "password", user.Email)

	apierrors.WriteJSON(w, http.StatusOK, sessionResponse{
		User:  userBody{ID: user.ID.Hex(), Name: user.Name, Email: user.Email},
		Token: token,
	})
}
