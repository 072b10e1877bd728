package handler

import (
	"net/http"

	"workconnect/internal/csrf"
	"workconnect/internal/model"
	"workconnect/internal/service"
	"workconnect/internal/session"
)

type AuthHandler struct {
	responder
	service  *service.AuthService
	sessions *session.Manager
	tokens   *csrf.Manager
}

func NewAuthHandler(svc *service.AuthService, sessions *session.Manager, tokens *csrf.Manager) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions, tokens: tokens}
}

func (h *AuthHandler) name() string { return "auth" }

func (h *AuthHandler) actions() actionSet {
	return actionSet{
		actionKey(http.MethodGet, "check"):                h.Check,
		actionKey(http.MethodPost, "login"):               h.Login,
		actionKey(http.MethodPost, "register"):            h.Register,
		actionKey(http.MethodPost, "logout"):              h.Logout,
		actionKey(http.MethodPost, "forgot_password"):     h.ForgotPassword,
		actionKey(http.MethodPost, "reset_password"):      h.ResetPassword,
		actionKey(http.MethodPost, "verify_email"):        h.VerifyEmail,
		actionKey(http.MethodPost, "resend_verification"): h.ResendVerification,
	}
}

type authStatus struct {
	LoggedIn  bool       `json:"logged_in"`
	UserID    int64      `json:"user_id,omitempty"`
	Role      model.Role `json:"role,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	CSRFToken string     `json:"csrf_token"`
}

// Check reports the session state and always hands out a CSRF token.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	s := caller(r)
	token, changed, err := h.tokens.Issue(s)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if changed || s.ID == "" {
		if err := h.sessions.Save(w, r, s); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	status := authStatus{LoggedIn: s.Authenticated(), CSRFToken: token}
	if status.LoggedIn {
		status.UserID, status.Role, status.Name, status.Email = s.UserID, s.Role, s.Name, s.Email
	}
	writeSuccess(w, http.StatusOK, "Session status", status)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.service.Login(r.Context(), payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.sessions.Login(w, r, caller(r), user); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Login successful.", user)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Registration successful. Please check your email to verify your account.",
		map[string]any{"user_id": user.ID, "user_type": user.Role})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r, caller(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Logged out successfully.", nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ForgotPasswordRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, service.ForgotPasswordMessage, nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ResetPasswordRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Password has been reset. You can now log in.", nil)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var payload model.VerifyEmailRequest
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.VerifyEmail(r.Context(), payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Email verified successfully.", nil)
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResendVerification(r.Context(), caller(r).UserID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Verification email sent.", nil)
}
