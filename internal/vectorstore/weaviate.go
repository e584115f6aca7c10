package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"go.uber.org/zap"
)

// Store enlaza un Client con el esquema de una colección
type Store struct {
	client *Client
	schema Schema
}

func NewStore(client *Client, schema Schema) *Store {
	return &Store{client: client, schema: schema}
}

func (s *Store) Name() string { return s.schema.Name }

// Collection asegura la colección (creándola si falta) y devuelve su handle
func (s *Store) Collection(ctx context.Context) (Collection, error) {
	conn, err := s.client.Connection(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.client.EnsureCollection(ctx, s.schema); err != nil {
		return nil, err
	}
	return &weaviateCollection{conn: conn, schema: s.schema, logger: s.client.logger}, nil
}

// ExistingCollection devuelve el handle solo si la colección ya existe
func (s *Store) ExistingCollection(ctx context.Context) (Collection, error) {
	conn, err := s.client.Connection(ctx)
	if err != nil {
		return nil, err
	}
	exists, err := s.client.CollectionExists(ctx, s.schema.Name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, s.schema.Name)
	}
	return &weaviateCollection{conn: conn, schema: s.schema, logger: s.client.logger}, nil
}

type weaviateCollection struct {
	conn   *weaviate.Client
	schema Schema
	logger *zap.Logger
}

func (c *weaviateCollection) Name() string { return c.schema.Name }

func (c *weaviateCollection) Exists(ctx context.Context, id string) (bool, error) {
	exists, err := c.conn.Data().Checker().
		WithClassName(c.schema.Name).
		WithID(id).
		Do(ctx)
	if err != nil {
		return false, classify(err)
	}
	return exists, nil
}

func (c *weaviateCollection) Get(ctx context.Context, id string) (*Object, error) {
	objects, err := c.conn.Data().ObjectsGetter().
		WithClassName(c.schema.Name).
		WithID(id).
		Do(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, classify(err)
	}
	if len(objects) == 0 || objects[0] == nil {
		return nil, nil
	}
	props, _ := objects[0].Properties.(map[string]any)
	return &Object{ID: id, Properties: props}, nil
}

func (c *weaviateCollection) Insert(ctx context.Context, id string, props Properties) error {
	_, err := c.conn.Data().Creator().
		WithClassName(c.schema.Name).
		WithID(id).
		WithProperties(map[string]any(props)).
		Do(ctx)
	return classify(err)
}

// Replace reemplaza todas las propiedades del objeto (PUT)
func (c *weaviateCollection) Replace(ctx context.Context, id string, props Properties) error {
	err := c.conn.Data().Updater().
		WithClassName(c.schema.Name).
		WithID(id).
		WithProperties(map[string]any(props)).
		Do(ctx)
	return classify(err)
}

func (c *weaviateCollection) Delete(ctx context.Context, id string) error {
	err := c.conn.Data().Deleter().
		WithClassName(c.schema.Name).
		WithID(id).
		Do(ctx)
	return classify(err)
}

func (c *weaviateCollection) NearText(ctx context.Context, query string, limit int, groupedTask string) (*QueryResult, error) {
	fields := make([]graphql.Field, 0, len(c.schema.Properties)+1)
	for _, name := range c.schema.PropertyNames() {
		fields = append(fields, graphql.Field{Name: name})
	}
	fields = append(fields, graphql.Field{
		Name:   "_additional",
		Fields: []graphql.Field{{Name: "id"}, {Name: "distance"}},
	})

	nearText := c.conn.GraphQL().NearTextArgBuilder().WithConcepts([]string{query})

	get := c.conn.GraphQL().Get().
		WithClassName(c.schema.Name).
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(limit)
	if groupedTask != "" {
		get = get.WithGenerativeSearch(graphql.NewGenerativeSearch().GroupedResult(groupedTask))
	}

	resp, err := get.Do(ctx)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			if e != nil {
				msgs = append(msgs, e.Message)
			}
		}
		return nil, fmt.Errorf("near text query failed: %v", msgs)
	}

	data := make(map[string]any, len(resp.Data))
	for k, v := range resp.Data {
		data[k] = v
	}
	result, err := parseGetResponse(data, c.schema.Name)
	if err != nil {
		return nil, err
	}
	if result.generateErr != "" {
		c.logger.Warn("generative module returned an error",
			zap.String("collection", c.schema.Name),
			zap.String("error", result.generateErr),
		)
	}
	return &result.QueryResult, nil
}

// isNotFound reconoce el 404 que Weaviate devuelve al pedir un objeto inexistente
func isNotFound(err error) bool {
	var clientErr *fault.WeaviateClientError
	return errors.As(err, &clientErr) && clientErr.StatusCode == http.StatusNotFound
}

type parsedResult struct {
	QueryResult
	generateErr string
}

// parseGetResponse lee data.Get.<Class>[] de la respuesta GraphQL
func parseGetResponse(data map[string]any, className string) (*parsedResult, error) {
	get, ok := data["Get"].(map[string]any)
	if !ok {
		return nil, errors.New("unexpected graphql response: missing Get")
	}
	rawObjects, ok := get[className].([]any)
	if !ok {
		if get[className] == nil {
			return &parsedResult{QueryResult: QueryResult{Matches: []Match{}}}, nil
		}
		return nil, fmt.Errorf("unexpected graphql response for %s", className)
	}

	out := &parsedResult{QueryResult: QueryResult{Matches: make([]Match, 0, len(rawObjects))}}
	for _, raw := range rawObjects {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		m := Match{Properties: Properties{}}
		for k, v := range obj {
			if k != "_additional" {
				m.Properties[k] = v
			}
		}
		if additional, ok := obj["_additional"].(map[string]any); ok {
			m.ID, _ = additional["id"].(string)
			m.Distance, _ = additional["distance"].(float64)
			if generate, ok := additional["generate"].(map[string]any); ok {
				if grouped, ok := generate["groupedResult"].(string); ok && out.Answer == "" {
					out.Answer = grouped
				}
				if genErr, ok := generate["error"].(string); ok && genErr != "" {
					out.generateErr = genErr
				}
			}
		}
		out.Matches = append(out.Matches, m)
	}
	return out, nil
}
