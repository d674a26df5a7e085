// internal/app/features/accounts/signout.go
package accounts

import (
	"net/http"

	"github.com/scribehq/scribe/internal/app/features/apierrors"
	"github.com/scribehq/scribe/internal/app/system/auth"
)

// HandleSignout clears the session cookie. Bearer tokens are stateless and
// simply expire; clients should discard theirs.
func (h *Handler) HandleSignout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "signout", err)
		return
	}

	h.AuditLog.Logout(r.Context(), r, user.ID)

	apierrors.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
