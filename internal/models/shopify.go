package models

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ShopifyProduct es el payload de producto de la Admin REST API y de los webhooks
type ShopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Handle      string           `json:"handle"`
	Status      string           `json:"status"`
	Tags        string           `json:"tags"`
	CreatedAt   *time.Time       `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at"`
	Variants    []ShopifyVariant `json:"variants"`
	Image       *ShopifyImage    `json:"image"`
	Images      []ShopifyImage   `json:"images"`
}

type ShopifyVariant struct {
	ID                int64  `json:"id"`
	Price             string `json:"price"`
	CompareAtPrice    string `json:"compare_at_price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type ShopifyImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// ExternalID devuelve el ID de Shopify como string
func (sp ShopifyProduct) ExternalID() string {
	if sp.ID == 0 {
		return ""
	}
	return strconv.FormatInt(sp.ID, 10)
}

// ToProduct mapea el payload de Shopify al esquema guardado, aplicando defaults
// para los campos ausentes (precio 0, imagen vacía, sin tags, activo).
func (sp ShopifyProduct) ToProduct(now time.Time) Product {
	p := Product{
		ProductID:       sp.ExternalID(),
		Name:            sp.Title,
		Description:     stripHTML(sp.BodyHTML),
		Image:           sp.imageSrc(),
		Category:        sp.ProductType,
		ProductCategory: sp.ProductType,
		Type:            sp.ProductType,
		Tags:            splitTags(sp.Tags),
		CreatedAt:       now,
		UpdatedAt:       now,
		IsActive:        sp.Status == "" || strings.EqualFold(sp.Status, "active"),
	}
	if sp.CreatedAt != nil {
		p.CreatedAt = *sp.CreatedAt
	}
	if sp.UpdatedAt != nil {
		p.UpdatedAt = *sp.UpdatedAt
	}

	if len(sp.Variants) > 0 {
		first := sp.Variants[0]
		p.Price = parseDecimal(first.Price)
		p.Discount = discountPercent(p.Price, parseDecimal(first.CompareAtPrice))
	}
	for _, v := range sp.Variants {
		p.Stock += v.InventoryQuantity
	}
	return p
}

func (sp ShopifyProduct) imageSrc() string {
	if sp.Image != nil && sp.Image.Src != "" {
		return sp.Image.Src
	}
	for _, img := range sp.Images {
		if img.Src != "" {
			return img.Src
		}
	}
	return ""
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func stripHTML(s string) string {
	s = htmlTag.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func discountPercent(price, compareAt float64) float64 {
	if compareAt <= 0 || compareAt <= price {
		return 0
	}
	return math.Round((compareAt-price)/compareAt*10000) / 100
}
