package handlers

import "catalog-search/internal/models"

// Estructuras para respuestas
type WebhookResponse struct {
	Success bool   `json:"success"`
	Action  string `json:"action,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type SearchData struct {
	Answer   string               `json:"answer"`
	Products []models.ProductView `json:"products"`
}

type SearchResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    *SearchData `json:"data"`
}

type DeletedProduct struct {
	ProductID string `json:"product_id"`
	Deleted   bool   `json:"deleted"`
}

// ValidationError representa un error de validación
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
