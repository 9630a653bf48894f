package http

import (
	"net/http"
	"regexp"
	"time"

	"github.com/Strob0t/basenames/internal/domain/basename"
)

const (
	walletCookie   = "wallet_address"
	sessionCookie  = "current_session"
	accountMaxAge  = 24 * time.Hour
	accountPath    = "/"
	sessionIDStart = 2
	sessionIDEnd   = 8
)

// sessionIDPattern matches the address slice SaveAccount issues as session id.
var sessionIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// sessionID returns the session id cookie when it is well formed.
func sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || !sessionIDPattern.MatchString(c.Value) {
		return "", false
	}
	return c.Value, true
}

type accountRequest struct {
	Address string `json:"address"`
}

type accountResponse struct {
	Account *string `json:"account"`
}

// GetAccount handles GET /api/account. It reads the wallet address bound to
// the current session, falling back to the unscoped cookie.
func (h *Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	var account *string
	if sid, ok := sessionID(r); ok {
		if c, err := r.Cookie(walletCookie + "_" + sid); err == nil && c.Value != "" {
			account = &c.Value
		}
	}
	if account == nil {
		if c, err := r.Cookie(walletCookie); err == nil && c.Value != "" {
			account = &c.Value
		}
	}
	writeJSON(w, http.StatusOK, accountResponse{Account: account})
}

// SaveAccount handles POST /api/account.
func (h *Handlers) SaveAccount(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[accountRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.Address, "address") {
		return
	}
	if err := basename.ValidateAddress("address", req.Address); err != nil {
		writeDomainError(w, err, "")
		return
	}

	sid := req.Address[sessionIDStart:sessionIDEnd]
	maxAge := int(accountMaxAge / time.Second)
	http.SetCookie(w, h.accountCookie(walletCookie+"_"+sid, req.Address, maxAge))
	http.SetCookie(w, h.accountCookie(sessionCookie, sid, maxAge))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ClearAccount handles DELETE /api/account.
func (h *Handlers) ClearAccount(w http.ResponseWriter, r *http.Request) {
	if sid, ok := sessionID(r); ok {
		http.SetCookie(w, h.accountCookie(walletCookie+"_"+sid, "", -1))
	}
	http.SetCookie(w, h.accountCookie(sessionCookie, "", -1))
	http.SetCookie(w, h.accountCookie(walletCookie, "", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) accountCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     accountPath,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	}
}
