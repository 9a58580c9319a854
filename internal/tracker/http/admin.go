package http

import (
	"net/http"

	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/pkg/castsdk"
	"github.com/aussiebroadwan/castrack/pkg/httpx"
)

type AdminHandler struct {
	AccountService *service.AccountService
}

// HandlePending godoc
//
//	@Summary		List accounts awaiting approval
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{array}		castsdk.Account
//	@Failure		401	{object}	castsdk.ErrorResponse
//	@Failure		403	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin/users [get].
func (h *AdminHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	accs, err := h.AccountService.ListPending(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentAccounts(accs))
}

// HandleList godoc
//
//	@Summary		List every account
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{array}		castsdk.Account
//	@Failure		401	{object}	castsdk.ErrorResponse
//	@Failure		403	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin/all-users [get].
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accs, err := h.AccountService.ListAccounts(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentAccounts(accs))
}

// HandleApprove godoc
//
//	@Summary		Approve an account
//	@Description	Approves a pending account as teacher or student and notifies its owner.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Account ID"
//	@Param			request	body		castsdk.ApproveRequest	true	"Role to grant"
//	@Success		200		{object}	castsdk.Account
//	@Failure		400		{object}	castsdk.ErrorResponse	"invalid role"
//	@Failure		403		{object}	castsdk.ErrorResponse	"administrator account"
//	@Failure		404		{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin/approve/{id} [post].
func (h *AdminHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	var req castsdk.ApproveRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	acc, err := h.AccountService.Approve(r.Context(), actorFrom(r), r.PathValue("id"), req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentAccount(acc))
}

// HandleDeactivate godoc
//
//	@Summary		Deactivate an account
//	@Description	Blocks future logins. The administrator account cannot be deactivated.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	castsdk.Account
//	@Failure		403	{object}	castsdk.ErrorResponse
//	@Failure		404	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin/deactivate/{id} [post].
func (h *AdminHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	acc, err := h.AccountService.Deactivate(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentAccount(acc))
}

// HandleReactivate godoc
//
//	@Summary		Reactivate an account
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	castsdk.Account
//	@Failure		403	{object}	castsdk.ErrorResponse
//	@Failure		404	{object}	castsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/admin/reactivate/{id} [post].
func (h *AdminHandler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	acc, err := h.AccountService.Reactivate(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, presentAccount(acc))
}
