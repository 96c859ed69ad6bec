package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
)

// ListPharmacies все аптеки или только аптеки владельца, если задан ownerID
func (c *Client) ListPharmacies(ctx context.Context, ownerID string) ([]domain.Pharmacy, error) {
	path := "/pharmacies"
	if ownerID != "" {
		path += "?ownerId=" + url.QueryEscape(ownerID)
	}
	var out []domain.Pharmacy
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	var out []domain.Medicine
	if err := c.do(ctx, http.MethodGet, "/medicines", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PharmacyMedicines(ctx context.Context, pharmacyID string) ([]domain.Medicine, error) {
	var out []domain.Medicine
	if err := c.do(ctx, http.MethodGet, pathf("/medicines/pharmacy/%s", pharmacyID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteMedicine(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathf("/medicines/%s", id), nil, nil)
}
