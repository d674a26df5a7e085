// internal/app/features/accounts/signup.go
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	membershipstore "github.com/scribehq/scribe/internal/app/store/memberships"
	teamstore "github.com/scribehq/scribe/internal/app/store/teams"
	userstore "github.com/scribehq/scribe/internal/app/store/users"
	"github.com/scribehq/scribe/internal/app/system/htmlsanitize"
	"github.com/scribehq/scribe/internal/app/system/inputval"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"github.com/scribehq/scribe/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required,min=8,max=72" label:"Password"`
	TeamName string `json:"team_name" validate:"max=100" label:"Team name"`
}

// HandleSignup creates a user, their team, and an owner membership, then
// signs them in. New users always start as the owner of a fresh team;
// joining an existing team happens through invitations, not signup.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}

	req.Name = htmlsanitize.SanitizeText(req.Name)
	req.TeamName = htmlsanitize.SanitizeText(req.TeamName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if res := inputval.Validate(&req); res.HasErrors() {
		apierrors.Validation(w, res.Map())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	user, err := userstore.New(h.DB).Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		AuthMethod:   "password",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			apierrors.Conflict(w, "an account with this email already exists")
			return
		}
		h.ErrLog.LogServerError(w, r, "signup", err)
		return
	}

	teamName := req.TeamName
	if teamName == "" {
		teamName = req.Name + "'s Team"
	}
	team, err := teamstore.New(h.DB).Create(ctx, teamName)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup", err)
		return
	}
	if err := membershipstore.New(h.DB).Add(ctx, user.ID, team.ID, models.RoleOwner); err != nil {
		h.ErrLog.LogServerError(w, r, "signup", err)
		return
	}

	token, err := h.SessionMgr.MintToken(&user)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup", err)
		return
	}
	if err := h.SessionMgr.SignIn(w, r, &user); err != nil {
		// The account exists and the token works; only the cookie failed.
		h.Log.Warn("signup cookie not set", zap.Error(err))
	}

	h.AuditLog.SignupSuccess(ctx, r, user.ID, team.ID, user.Email)

	apierrors.WriteJSON(w, http.StatusCreated, sessionResponse{
		User:  userBody{ID: user.ID.Hex(), Name: user.Name, Email: user.Email},
		Token: token,
	})
}
