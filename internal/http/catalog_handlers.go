package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/repository"
)

// @Summary List medicines
// @Tags catalog
// @Produce json
// @Param q query string false "Name contains"
// @Param category query string false "Category"
// @Param pharmacyId query string false "Pharmacy ID"
// @Param min_price query number false "Min price"
// @Param max_price query number false "Max price"
// @Success 200 {array} domain.Medicine
// @Failure 400 {object} map[string]string
// @Router /medicines [get]
func (s *Server) listMedicines(c *gin.Context) {
	f := repository.MedicineFilter{
		NameSubstring: c.Query("q"),
		Category:      c.Query("category"),
		PharmacyID:    c.Query("pharmacyId"),
	}
	for param, dst := range map[string]**decimal.Decimal{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		v := c.Query(param)
		if v == "" {
			continue
		}
		x, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
			return
		}
		*dst = &x
	}
	list, err := s.catalog.ListMedicines(c, f)
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []domain.Medicine{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Delete medicine
// @Tags catalog
// @Param id path string true "Medicine ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Router /medicines/{id} [delete]
func (s *Server) deleteMedicine(c *gin.Context) {
	if err := s.catalog.DeleteMedicine(c, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List pharmacies
// @Tags catalog
// @Produce json
// @Param ownerId query string false "Owner ID"
// @Success 200 {array} domain.Pharmacy
// @Router /pharmacies [get]
func (s *Server) listPharmacies(c *gin.Context) {
	list, err := s.catalog.ListPharmacies(c, c.Query("ownerId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []domain.Pharmacy{}
	}
	c.JSON(http.StatusOK, list)
}
