package http

import (
	"net/http"

	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/pkg/castsdk"
	"github.com/aussiebroadwan/castrack/pkg/httpx"
)

type AuthHandler struct {
	AccountService  *service.AccountService
	RecoveryService *service.RecoveryService
}

// HandleSignup godoc
//
//	@Summary		Register an account
//	@Description	Creates an unapproved account. Only school email addresses are accepted and the password must meet the strength rules.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		castsdk.SignupRequest	true	"Signup request"
//	@Success		201		{object}	castsdk.SignupResponse
//	@Failure		400		{object}	castsdk.ErrorResponse	"invalid body, rejected domain, weak password or existing account"
//	@Failure		429		{object}	castsdk.ErrorResponse
//	@Router			/api/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req castsdk.SignupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	acc, err := h.AccountService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, castsdk.SignupResponse{
		Message: "User registered successfully. Awaiting admin approval.",
		ID:      acc.ID,
	})
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Exchanges email and password for a signed credential. The account must be approved and active.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		castsdk.LoginRequest	true	"Login request"
//	@Success		200		{object}	castsdk.LoginResponse
//	@Failure		400		{object}	castsdk.ErrorResponse	"invalid credentials"
//	@Failure		403		{object}	castsdk.ErrorResponse	"not approved or deactivated"
//	@Failure		429		{object}	castsdk.ErrorResponse
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req castsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	res, err := h.AccountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, castsdk.LoginResponse{
		Token:     res.Token,
		Role:      string(res.Role),
		ExpiresAt: res.ExpiresAt,
	})
}

// HandleForgotPassword godoc
//
//	@Summary		Start password recovery
//	@Description	Emails a six digit code valid for ten minutes. For the administrator account a fresh password is generated and sent to the recovery mailbox instead.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		castsdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	castsdk.MessageResponse
//	@Failure		404		{object}	castsdk.ErrorResponse	"unknown email"
//	@Failure		429		{object}	castsdk.ErrorResponse
//	@Router			/api/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req castsdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	if err := h.RecoveryService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, castsdk.MessageResponse{Message: "OTP sent to email"})
}

// HandleVerifyOTP godoc
//
//	@Summary		Check a recovery code
//	@Description	Reports whether the code is current for the account. The code stays valid until it is used or expires.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		castsdk.VerifyOTPRequest	true	"Email and code"
//	@Success		200		{object}	castsdk.MessageResponse
//	@Failure		400		{object}	castsdk.ErrorResponse	"invalid or expired code"
//	@Failure		429		{object}	castsdk.ErrorResponse
//	@Router			/api/auth/verify-otp [post].
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req castsdk.VerifyOTPRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	if err := h.RecoveryService.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, castsdk.MessageResponse{Message: "OTP verified"})
}

// HandleResetPassword godoc
//
//	@Summary		Set a new password
//	@Description	Consumes a current recovery code and replaces the password.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		castsdk.ResetPasswordRequest	true	"Email, code and new password"
//	@Success		200		{object}	castsdk.MessageResponse
//	@Failure		400		{object}	castsdk.ErrorResponse	"invalid code or weak password"
//	@Failure		429		{object}	castsdk.ErrorResponse
//	@Router			/api/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req castsdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	if err := h.RecoveryService.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, castsdk.MessageResponse{Message: "Password reset successful"})
}

// HandleMe godoc
//
//	@Summary		Current account
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	castsdk.Account
//	@Failure		400	{object}	castsdk.ErrorResponse	"invalid credential"
//	@Failure		401	{object}	castsdk.ErrorResponse	"missing credential"
//	@Failure		404	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	acc, err := h.AccountService.Me(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentAccount(acc))
}
