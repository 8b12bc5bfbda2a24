package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/grail/internal/apperrors"
	"github.com/nkiryanov/grail/internal/handlers/render"
	"github.com/nkiryanov/grail/internal/models"
)

type priceResponse struct {
	DIV int64 `json:"div"`
	DOV int64 `json:"dov"`
}

type productResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	ImageURL    string        `json:"image_url"`
	Category    string        `json:"category"`
	Price       priceResponse `json:"price"`

	// Fiat value of the DIV price
	PriceMXN string `json:"price_mxn"`

	Features []string `json:"features,omitempty"`
	Details  any      `json:"details,omitempty"`
}

type dimensionsResponse struct {
	Width  string `json:"width"`
	Height string `json:"height"`
	Depth  string `json:"depth"`
}

type furnitureResponse struct {
	Type       string             `json:"type"`
	Dimensions dimensionsResponse `json:"dimensions"`
}

type studioResponse struct {
	Type         string `json:"type"`
	Location     string `json:"location"`
	Availability string `json:"availability"`
}

type hotelResponse struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func toProductResponse(p models.Product) productResponse {
	res := productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Price:       priceResponse{DIV: p.Price.Purchased, DOV: p.Price.Earned},
		PriceMXN:    models.QuoteTopUp(p.Price.Purchased).Cost.String(),
		Features:    p.Features,
	}

	switch d := p.Details.(type) {
	case models.FurnitureDetails:
		res.Details = furnitureResponse{
			Type:       "furniture",
			Dimensions: dimensionsResponse{Width: d.Dimensions.Width, Height: d.Dimensions.Height, Depth: d.Dimensions.Depth},
		}
	case models.StudioDetails:
		res.Details = studioResponse{Type: "studio", Location: d.Location, Availability: d.Availability}
	case models.HotelDetails:
		res.Details = hotelResponse{Type: "hotel", Location: d.Location, CheckIn: d.CheckIn, CheckOut: d.CheckOut}
	}

	return res
}

func handleListCategories(catalogService catalogService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, catalogService.Categories())
	})
}

func handleListProducts(catalogService catalogService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		products := catalogService.ListProducts(query.Get("category"), query.Get("search"))

		res := make([]productResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}
		render.JSON(w, res)
	})
}

func handleGetProduct(catalogService catalogService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		product, err := catalogService.GetProduct(r.PathValue("id"))

		switch {
		case err == nil:
			render.JSON(w, toProductResponse(product))
		case errors.Is(err, apperrors.ErrProductNotFound):
			render.ServiceError(w, "Product not found", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
