package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"
)

const (
	Text2VecOpenAI   = "text2vec-openai"
	GenerativeOpenAI = "generative-openai"
)

// Tipos de dato de Weaviate
const (
	DataTypeText      = "text"
	DataTypeTextArray = "text[]"
	DataTypeNumber    = "number"
	DataTypeInt       = "int"
	DataTypeDate      = "date"
	DataTypeBoolean   = "boolean"
)

type Property struct {
	Name     string
	DataType string
}

// Schema describe una colección con vectorizador y módulo generativo
type Schema struct {
	Name       string
	Properties []Property
	Vectorizer string
	Generative string
}

// ProductSchema es el esquema de la colección de productos
func ProductSchema(name string) Schema {
	return Schema{
		Name: name,
		Properties: []Property{
			{Name: "product_id", DataType: DataTypeText},
			{Name: "name", DataType: DataTypeText},
			{Name: "price", DataType: DataTypeNumber},
			{Name: "description", DataType: DataTypeText},
			{Name: "image", DataType: DataTypeText},
			{Name: "category", DataType: DataTypeText},
			{Name: "productCategory", DataType: DataTypeText},
			{Name: "type", DataType: DataTypeText},
			{Name: "rating", DataType: DataTypeNumber},
			{Name: "stock", DataType: DataTypeInt},
			{Name: "tags", DataType: DataTypeTextArray},
			{Name: "createdAt", DataType: DataTypeDate},
			{Name: "updatedAt", DataType: DataTypeDate},
			{Name: "isActive", DataType: DataTypeBoolean},
			{Name: "discount", DataType: DataTypeNumber},
		},
		Vectorizer: Text2VecOpenAI,
		Generative: GenerativeOpenAI,
	}
}

// PropertyNames devuelve los nombres de las propiedades en orden
func (s Schema) PropertyNames() []string {
	names := make([]string, len(s.Properties))
	for i, p := range s.Properties {
		names[i] = p.Name
	}
	return names
}

func (s Schema) class() *models.Class {
	props := make([]*models.Property, len(s.Properties))
	for i, p := range s.Properties {
		props[i] = &models.Property{Name: p.Name, DataType: []string{p.DataType}}
	}

	moduleConfig := map[string]any{}
	if s.Vectorizer != "" {
		moduleConfig[s.Vectorizer] = map[string]any{"vectorizeClassName": false}
	}
	if s.Generative != "" {
		moduleConfig[s.Generative] = map[string]any{}
	}

	return &models.Class{
		Class:        s.Name,
		Vectorizer:   s.Vectorizer,
		ModuleConfig: moduleConfig,
		Properties:   props,
	}
}

// CollectionExists consulta si la clase ya existe
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	conn, err := c.Connection(ctx)
	if err != nil {
		return false, err
	}
	exists, err := conn.Schema().ClassExistenceChecker().WithClassName(name).Do(ctx)
	if err != nil {
		return false, classify(err)
	}
	return exists, nil
}

// EnsureCollection crea la colección si no existe. Es idempotente.
func (c *Client) EnsureCollection(ctx context.Context, schema Schema) error {
	c.ensuredMu.Lock()
	defer c.ensuredMu.Unlock()
	if c.ensured[schema.Name] {
		return nil
	}

	exists, err := c.CollectionExists(ctx, schema.Name)
	if err != nil {
		if errors.Is(err, ErrConnection) {
			return err
		}
		return fmt.Errorf("%w: check %s: %v", ErrSchema, schema.Name, err)
	}
	if !exists {
		conn, err := c.Connection(ctx)
		if err != nil {
			return err
		}
		if err := conn.Schema().ClassCreator().WithClass(schema.class()).Do(ctx); err != nil {
			c.logger.Error("collection creation failed", zap.String("collection", schema.Name), zap.Error(err))
			return fmt.Errorf("%w: create %s: %v", ErrSchema, schema.Name, err)
		}
		c.logger.Info("collection created",
			zap.String("collection", schema.Name),
			zap.String("vectorizer", schema.Vectorizer),
			zap.String("generative", schema.Generative),
		)
	} else {
		c.logger.Debug("collection already exists", zap.String("collection", schema.Name))
	}

	c.ensured[schema.Name] = true
	return nil
}
