package handler

import (
	"net/http"

	"github.com/teamdeck/auth-service/internal/usecase"
)

// InviteEmployee creates a passwordless account and emails a setup link.
func (h *Handler) InviteEmployee(w http.ResponseWriter, r *http.Request) {
	var req InviteEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.inviteUsecase.InviteEmployee(r.Context(), usecase.InviteEmployeeParams{
		Email:     req.Email,
		Category:  req.Category,
		CompanyID: req.CompanyID,
	}); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageResponse{
		Message: "Invitation link sent successfully.",
	})
}

// SetupPassword completes an invitation by setting the account password.
func (h *Handler) SetupPassword(w http.ResponseWriter, r *http.Request) {
	var req SetupPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.inviteUsecase.SetupPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageUserResponse{
		Message: "Your password has been set successfully.",
		User:    newUserResponse(user),
	})
}

// RequestPasswordResetLink emails a link-based password reset token.
func (h *Handler) RequestPasswordResetLink(w http.ResponseWriter, r *http.Request) {
	var req RequestResetLinkRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.inviteUsecase.RequestPasswordResetLink(r.Context(), req.Email); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageResponse{Message: forgotPasswordMessage})
}

// ResetPasswordWithToken sets a new password using a link-based reset token.
func (h *Handler) ResetPasswordWithToken(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordTokenRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.inviteUsecase.ResetPasswordWithToken(r.Context(), req.Token, req.Password); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageResponse{
		Message: "Your password has been updated successfully.",
	})
}
