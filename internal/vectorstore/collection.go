// Package vectorstore define el acceso a la colección vectorial de productos.
package vectorstore

import (
	"context"
	"errors"
)

var (
	// ErrConnection indica que el vector store no está configurado o no responde
	ErrConnection = errors.New("vector store connection failed")
	// ErrSchema indica que no se pudo crear la colección
	ErrSchema = errors.New("vector store schema error")
	// ErrCollectionNotFound indica que la colección todavía no existe
	ErrCollectionNotFound = errors.New("collection not found")
)

// Properties son los campos guardados de un objeto
type Properties map[string]any

// Object es un objeto leído por ID
type Object struct {
	ID         string
	Properties Properties
}

// Match es un resultado de búsqueda por texto con su distancia
type Match struct {
	ID         string
	Properties Properties
	Distance   float64
}

// QueryResult es la respuesta de una búsqueda near-text con tarea agrupada
type QueryResult struct {
	Answer  string
	Matches []Match
}

// Collection es el handle sobre una colección existente
type Collection interface {
	Name() string
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*Object, error)
	Insert(ctx context.Context, id string, props Properties) error
	Replace(ctx context.Context, id string, props Properties) error
	Delete(ctx context.Context, id string) error
	NearText(ctx context.Context, query string, limit int, groupedTask string) (*QueryResult, error)
}

// Provider entrega el handle de la colección configurada
type Provider interface {
	// Name devuelve el nombre de la colección
	Name() string
	// Collection asegura que la colección exista y devuelve su handle
	Collection(ctx context.Context) (Collection, error)
	// ExistingCollection devuelve ErrCollectionNotFound si la colección no existe
	ExistingCollection(ctx context.Context) (Collection, error)
}
