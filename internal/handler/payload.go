package handler

import "github.com/teamdeck/auth-service/internal/model"

type SignupRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required"`
	CompanyName string `json:"companyName"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	OTP      string `json:"otp"      validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required"`
}

type InviteEmployeeRequest struct {
	Email     string  `json:"email"    validate:"required,email"`
	Category  string  `json:"category" validate:"required"`
	CompanyID *string `json:"companyId"`
}

type SetupPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RequestResetLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordTokenRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	CompanyID      *string `json:"companyId,omitempty"`
	Category       *string `json:"category,omitempty"`
	EmailValidated bool    `json:"emailValidated"`
}

type MessageUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type CompanyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newUserResponse(user *model.User) UserResponse {
	resp := UserResponse{
		ID:             user.ID.Hex(),
		Email:          user.Email,
		Role:           string(user.Role),
		Category:       user.Category,
		EmailValidated: user.EmailValidated,
	}

	if user.CompanyID != nil {
		companyID := user.CompanyID.Hex()
		resp.CompanyID = &companyID
	}

	return resp
}
