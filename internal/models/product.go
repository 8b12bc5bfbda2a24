package models

const (
	CategoryAll       = "All"
	CategoryFurniture = "Furniture"
	CategoryHotels    = "Hotels"
	CategoryStudios   = "Studios"
	CategoryDecor     = "Decor"
	CategoryLifestyle = "Lifestyle"
)

// Price of a product: two independent amounts, one per denomination
type Price struct {
	Purchased int64 // DIV
	Earned    int64 // DOV
}

func (p Price) Amount(d Denomination) int64 {
	switch d {
	case DenominationPurchased:
		return p.Purchased
	case DenominationEarned:
		return p.Earned
	default:
		return 0
	}
}

// Zero reports whether the price is empty in every denomination
func (p Price) Zero() bool {
	return p.Purchased == 0 && p.Earned == 0
}

// Affordable reports whether the balance covers every amount of the price
func (p Price) Affordable(b Balance) bool {
	for _, d := range Denominations {
		if b.Amount(d) < p.Amount(d) {
			return false
		}
	}
	return true
}

type Product struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	Category    string
	Price       Price
	Features    []string

	// Category specific details. Nil for categories without details
	Details ProductDetails
}

// ProductDetails is implemented by detail types of the categories that have any
type ProductDetails interface {
	Category() string
}

type Dimensions struct {
	Width  string
	Height string
	Depth  string
}

type FurnitureDetails struct {
	Dimensions Dimensions
}

func (FurnitureDetails) Category() string { return CategoryFurniture }

type StudioDetails struct {
	Location     string
	Availability string
}

func (StudioDetails) Category() string { return CategoryStudios }

type HotelDetails struct {
	Location string
	CheckIn  string
	CheckOut string
}

func (HotelDetails) Category() string { return CategoryHotels }
