package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/repository"
)

// CatalogService инкапсулирует чтение каталога: товары и аптеки
type CatalogService struct {
	api   CatalogAPI
	users CurrentUserProvider
	log   zerolog.Logger
}

func NewCatalogService(api CatalogAPI, users CurrentUserProvider, log zerolog.Logger) *CatalogService {
	return &CatalogService{api: api, users: users, log: log}
}

// ListMedicines загружает каталог (или товары одной аптеки) и фильтрует локально
func (s *CatalogService) ListMedicines(ctx context.Context, f repository.MedicineFilter) ([]domain.Medicine, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, ErrInvalidInput
	}
	var (
		all []domain.Medicine
		err error
	)
	if id := strings.TrimSpace(f.PharmacyID); id != "" {
		all, err = s.api.PharmacyMedicines(ctx, id)
	} else {
		all, err = s.api.ListMedicines(ctx)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("pharmacy_id", f.PharmacyID).Msg("list medicines failed")
		return nil, err
	}
	out := make([]domain.Medicine, 0, len(all))
	for _, m := range all {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// ListPharmacies все аптеки или только аптеки владельца
func (s *CatalogService) ListPharmacies(ctx context.Context, ownerID string) ([]domain.Pharmacy, error) {
	return s.api.ListPharmacies(ctx, strings.TrimSpace(ownerID))
}

// DeleteMedicine доступно владельцу аптеки и админу
func (s *CatalogService) DeleteMedicine(ctx context.Context, id string) error {
	u := s.users.CurrentUser()
	if u == nil {
		return ErrNotAuthenticated
	}
	if u.Role != domain.RolePharmacyOwner && u.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.api.DeleteMedicine(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("medicine_id", id).Msg("delete medicine failed")
		return err
	}
	return nil
}
