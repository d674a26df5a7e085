// internal/app/features/accounts/delete_account.go
package accounts

import (
	"context"
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	membershipstore "github.com/scribehq/scribe/internal/app/store/memberships"
	userstore "github.com/scribehq/scribe/internal/app/store/users"
	"github.com/scribehq/scribe/internal/app/system/auth"
	"github.com/scribehq/scribe/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDeleteAccount soft-deletes the caller's account and removes their
// team memberships. The user document is kept so authored articles retain
// a valid author reference; every identity read path already filters
// soft-deleted users, so the account is immediately unusable.
func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := userstore.New(h.DB).SoftDelete(ctx, user.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete account", err)
		return
	}
	if _, err := membershipstore.New(h.DB).DeleteByUser(ctx, user.ID); err != nil {
		// The account is already dead; membership rows are now garbage
		// but harmless, every guard check re-resolves the user first.
		h.Log.Warn("membership cleanup after account deletion failed",
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session not cleared after account deletion", zap.Error(err))
	}

	apierrors.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
