package models

// Category is one of the fixed catalog categories.
type Category string

const (
	Electronics    Category = "electronics"
	Jewelery       Category = "jewelery"
	MensClothing   Category = "men's clothing"
	WomensClothing Category = "women's clothing"

	// AllCategories is the filter value meaning "no category filter".
	AllCategories Category = "all"
)

var categoryLabels = map[Category]string{
	AllCategories:  "All categories",
	Electronics:    "Electronics",
	Jewelery:       "Jewelry",
	MensClothing:   "Men's clothing",
	WomensClothing: "Women's clothing",
}

// Categories returns the catalog categories in display order.
func Categories() []Category {
	return []Category{Electronics, Jewelery, MensClothing, WomensClothing}
}

// Valid reports whether c is one of the catalog categories. AllCategories is not valid
// on a product.
func (c Category) Valid() bool {
	switch c {
	case Electronics, Jewelery, MensClothing, WomensClothing:
		return true
	}
	return false
}

// Label returns the human readable name of c.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return "Filter by category"
}

type Product struct {
	ID          int      `json:"id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Price       float64  `json:"price" validate:"price"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	Category    Category `json:"category" validate:"category"`
	Image       string   `json:"image" validate:"required,url"`
}

// ProductInput is the candidate record sent on create (ID zero) and update (ID set).
type ProductInput struct {
	ID          int      `json:"id,omitempty"`
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Price       float64  `json:"price" validate:"price"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	Category    Category `json:"category" validate:"category"`
	Image       string   `json:"image" validate:"required,url"`
}

// Input converts p into the candidate record used by update.
func (p Product) Input() ProductInput {
	return ProductInput{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	}
}

// Product converts the input into a product with the given id.
func (in ProductInput) Product(id int) Product {
	return Product{
		ID:          id,
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Image:       in.Image,
	}
}
