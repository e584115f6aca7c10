package repository

import (
	"time"

	"catalog-search/internal/models"
	"catalog-search/internal/vectorstore"
)

// toProperties mapea el producto al esquema de la colección
func toProperties(p models.Product) vectorstore.Properties {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC()
	createdAt, updatedAt := p.CreatedAt, p.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}

	return vectorstore.Properties{
		"product_id":      p.ProductID,
		"name":            p.Name,
		"price":           p.Price,
		"description":     p.Description,
		"image":           p.Image,
		"category":        p.Category,
		"productCategory": p.ProductCategory,
		"type":            p.Type,
		"rating":          p.Rating,
		"stock":           p.Stock,
		"tags":            tags,
		"createdAt":       createdAt.UTC().Format(time.RFC3339),
		"updatedAt":       updatedAt.UTC().Format(time.RFC3339),
		"isActive":        p.IsActive,
		"discount":        p.Discount,
	}
}

// fromProperties lee un objeto de la colección, tolerando campos ausentes
func fromProperties(props vectorstore.Properties) models.Product {
	p := models.Product{
		ProductID:       str(props["product_id"]),
		Name:            str(props["name"]),
		Description:     str(props["description"]),
		Price:           num(props["price"]),
		Image:           str(props["image"]),
		Category:        str(props["category"]),
		ProductCategory: str(props["productCategory"]),
		Type:            str(props["type"]),
		Rating:          num(props["rating"]),
		Stock:           int(num(props["stock"])),
		Tags:            strs(props["tags"]),
		CreatedAt:       date(props["createdAt"]),
		UpdatedAt:       date(props["updatedAt"]),
		IsActive:        true,
		Discount:        num(props["discount"]),
	}
	if active, ok := props["isActive"].(bool); ok {
		p.IsActive = active
	}
	return p
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func strs(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []string:
		out = append(out, t...)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func date(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
