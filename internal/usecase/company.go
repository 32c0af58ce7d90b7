package usecase

import (
	"context"

	"github.com/teamdeck/auth-service/internal/model"
	"github.com/teamdeck/auth-service/internal/repository"
)

// CompanyUsecase defines company-related use cases.
type CompanyUsecase interface {
	CreateCompany(ctx context.Context, name string) (*model.Company, error)
}

type companyUsecase struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyUsecase creates a new instance of CompanyUsecase.
func NewCompanyUsecase(companyRepo repository.CompanyRepository) CompanyUsecase {
	return &companyUsecase{companyRepo: companyRepo}
}

func (u *companyUsecase) CreateCompany(ctx context.Context, name string) (*model.Company, error) {
	return u.companyRepo.CreateCompany(ctx, &model.Company{Name: name})
}
