package models

import "time"

// Product representa un producto tal como se guarda en la colección vectorial
type Product struct {
	ProductID       string    `json:"product_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Image           string    `json:"image"`
	Category        string    `json:"category"`
	ProductCategory string    `json:"productCategory"`
	Type            string    `json:"type"`
	Rating          float64   `json:"rating"`
	Stock           int       `json:"stock"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	IsActive        bool      `json:"isActive"`
	Discount        float64   `json:"discount"`
}

// ProductView es la forma que recibe el cliente del buscador
type ProductView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
}

// View convierte el producto al formato público usando el ID interno
func (p Product) View(id string) ProductView {
	name := p.Name
	if name == "" {
		name = "Unnamed"
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProductView{
		ID:          id,
		Name:        name,
		Price:       p.Price,
		Image:       p.Image,
		Tags:        tags,
		Type:        p.Type,
		Description: p.Description,
	}
}
