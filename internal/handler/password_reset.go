package handler

import (
	"net/http"
)

// forgotPasswordMessage is returned whether or not the email is known, so the
// endpoint cannot be used to probe for accounts.
const forgotPasswordMessage = "If an account exists for this email, a password reset code has been sent."

// ForgotPassword issues a password reset code for a known email.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.passwordResetUsecase.ForgotPassword(r.Context(), req.Email); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageResponse{Message: forgotPasswordMessage})
}

// ResetPassword sets a new password after validating the reset code.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.passwordResetUsecase.ResetPassword(r.Context(), req.Email, req.OTP, req.Password); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageResponse{
		Message: "Your password has been updated successfully.",
	})
}
