package handler

import (
	"net/http"

	"github.com/teamdeck/auth-service/internal/usecase"
)

// Signup registers a new user and sends a verification code by email.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authUsecase.SignUp(r.Context(), usecase.SignUpParams{
		Email:       req.Email,
		Password:    req.Password,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, MessageUserResponse{
		Message: "A verification code has been sent to your email address.",
		User:    newUserResponse(user),
	})
}

// VerifyOTP validates the emailed verification code and marks the account as
// validated.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authUsecase.VerifyEmail(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageUserResponse{
		Message: "Your account has been verified successfully.",
		User:    newUserResponse(user),
	})
}

// ResendOTP reissues the verification code for an unvalidated account.
func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authUsecase.ResendVerification(r.Context(), req.Email); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageResponse{
		Message: "A new verification code has been sent to your email address.",
	})
}

// Login verifies the user's credentials.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, MessageUserResponse{
		Message: "Logged in successfully.",
		User:    newUserResponse(user),
	})
}
