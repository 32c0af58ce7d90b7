package handler

import (
	"net/http"
)

// CreateCompany creates a new company.
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	company, err := h.companyUsecase.CreateCompany(r.Context(), req.Name)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, CompanyResponse{
		ID:   company.ID.Hex(),
		Name: company.Name,
	})
}
