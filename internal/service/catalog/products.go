package catalog

import (
	"github.com/nkiryanov/grail/internal/models"
)

// DefaultProducts is the marketplace shipped with the app
func DefaultProducts() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Title:       "Modern Sofa",
			Description: "A beautiful modern sofa for your living room. Made with premium materials and designed for comfort and style.",
			ImageURL:    "https://images.pexels.com/photos/1866149/pexels-photo-1866149.jpeg",
			Category:    models.CategoryFurniture,
			Price:       models.Price{Purchased: 25, Earned: 200},
			Features: []string{
				"Premium fabric upholstery",
				"Solid wood frame",
				"Comfortable cushions",
				"Modern design",
			},
			Details: models.FurnitureDetails{
				Dimensions: models.Dimensions{Width: "200 cm", Height: "85 cm", Depth: "90 cm"},
			},
		},
		{
			ID:          "2",
			Title:       "Recording Studio - 2hr",
			Description: "Professional recording studio session for 2 hours. Includes engineer assistance and equipment.",
			ImageURL:    "https://images.pexels.com/photos/164938/pexels-photo-164938.jpeg",
			Category:    models.CategoryStudios,
			Price:       models.Price{Purchased: 10, Earned: 50},
			Features: []string{
				"Professional equipment",
				"Sound engineer assistance",
				"Acoustic treatment",
				"Mixing included",
			},
			Details: models.StudioDetails{
				Location:     "Mexico City, Downtown",
				Availability: "Monday to Saturday, 10am - 10pm",
			},
		},
		{
			ID:          "3",
			Title:       "Luxury Hotel - 1 Night",
			Description: "Enjoy a luxurious night at one of our partner hotels. Includes breakfast and access to amenities.",
			ImageURL:    "https://images.pexels.com/photos/261102/pexels-photo-261102.jpeg",
			Category:    models.CategoryHotels,
			Price:       models.Price{Purchased: 30, Earned: 300},
			Features: []string{
				"King size bed",
				"Ocean view",
				"Complimentary breakfast",
				"Access to pool and spa",
			},
			Details: models.HotelDetails{
				Location: "Cancun, Mexico",
				CheckIn:  "3:00 PM",
				CheckOut: "12:00 PM",
			},
		},
		{
			ID:       "4",
			Title:    "Ceramic Vase",
			ImageURL: "https://images.pexels.com/photos/2789545/pexels-photo-2789545.jpeg",
			Category: models.CategoryDecor,
			Price:    models.Price{Purchased: 5, Earned: 75},
		},
		{
			ID:       "5",
			Title:    "Desk Chair",
			ImageURL: "https://images.pexels.com/photos/1957478/pexels-photo-1957478.jpeg",
			Category: models.CategoryFurniture,
			Price:    models.Price{Purchased: 15, Earned: 150},
		},
		{
			ID:       "6",
			Title:    "Premium Headphones",
			ImageURL: "https://images.pexels.com/photos/3394650/pexels-photo-3394650.jpeg",
			Category: models.CategoryLifestyle,
			Price:    models.Price{Purchased: 8, Earned: 120},
		},
	}
}
