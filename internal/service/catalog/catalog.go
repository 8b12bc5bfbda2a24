package catalog

import (
	"slices"
	"strings"

	"github.com/nkiryanov/grail/internal/apperrors"
	"github.com/nkiryanov/grail/internal/models"
)

// Marketplace categories in the order the filter chips show them
var categories = []string{
	models.CategoryAll,
	models.CategoryFurniture,
	models.CategoryHotels,
	models.CategoryStudios,
	models.CategoryDecor,
	models.CategoryLifestyle,
}

// CatalogService keeps an ordered, read only list of products
type CatalogService struct {
	products []models.Product
}

func NewService(products []models.Product) *CatalogService {
	return &CatalogService{products: slices.Clone(products)}
}

// ListProducts filters the catalog by category and by a case insensitive title substring
// Empty category or "All" and empty search match everything. Catalog order is kept
// The search is matched as given, surrounding spaces included
func (s *CatalogService) ListProducts(category string, search string) []models.Product {
	search = strings.ToLower(search)

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && category != models.CategoryAll && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		products = append(products, p)
	}

	return products
}

func (s *CatalogService) GetProduct(id string) (models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, apperrors.ErrProductNotFound
}

func (s *CatalogService) Categories() []string {
	return slices.Clone(categories)
}
