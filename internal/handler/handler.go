// Package handler exposes the HTTP surface of the auth service.
package handler

import (
	"github.com/go-chi/chi/v5"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/teamdeck/auth-service/internal/usecase"
)

// Handler holds the use cases behind the HTTP endpoints.
type Handler struct {
	authUsecase          usecase.AuthUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	inviteUsecase        usecase.InviteUsecase
	companyUsecase       usecase.CompanyUsecase
	validate             *validator.Validate
	trans                ut.Translator
	logger               *zerolog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(
	authUsecase usecase.AuthUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	inviteUsecase usecase.InviteUsecase,
	companyUsecase usecase.CompanyUsecase,
	logger *zerolog.Logger,
) *Handler {
	validate, trans := newValidator(logger)

	return &Handler{
		authUsecase:          authUsecase,
		passwordResetUsecase: passwordResetUsecase,
		inviteUsecase:        inviteUsecase,
		companyUsecase:       companyUsecase,
		validate:             validate,
		trans:                trans,
		logger:               logger,
	}
}

// Routes builds the router for the auth service.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/resend-otp", h.ResendOTP)
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/invite", h.InviteEmployee)
		r.Post("/setup-password", h.SetupPassword)
		r.Post("/request-reset-link", h.RequestPasswordResetLink)
		r.Post("/reset-password-token", h.ResetPasswordWithToken)
	})

	r.Post("/companies", h.CreateCompany)

	return r
}
