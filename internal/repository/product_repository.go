package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"catalog-search/internal/models"
	"catalog-search/internal/vectorstore"
)

const (
	DefaultSearchLimit = 5
	defaultTimeout     = 10 * time.Second
)

var (
	ErrAlreadyExists     = errors.New("product already exists")
	ErrNotFound          = errors.New("product not found")
	ErrSearchUnavailable = errors.New("search unavailable")
	ErrInvalidProduct    = errors.New("invalid product")
)

// SalesAssistantTask es el prompt agrupado que recibe el módulo generativo junto a los resultados
const SalesAssistantTask = `You are a friendly sales assistant. Introduce the products below to the customer.
For each product:
- State the product name (name)
- State the product price (price)
- Write a short, appealing description based on the product name.
Present the result naturally and warmly.`

// Answerer genera la respuesta agrupada cuando el vector store no la devuelve
type Answerer interface {
	Answer(ctx context.Context, task string, products []models.Product) (string, error)
}

// Match es un producto encontrado con su distancia semántica
type Match struct {
	ID       string         `json:"id"`
	Product  models.Product `json:"product"`
	Distance float64        `json:"distance"`
}

type SearchResult struct {
	Answer  string  `json:"answer"`
	Results []Match `json:"results"`
}

type ProductRepository struct {
	store    vectorstore.Provider
	answerer Answerer
	timeout  time.Duration
	logger   *zap.Logger
}

type Option func(*ProductRepository)

// WithTimeout define el timeout por operación
func WithTimeout(d time.Duration) Option {
	return func(r *ProductRepository) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithAnswerer define el generador de respuesta de respaldo
func WithAnswerer(a Answerer) Option {
	return func(r *ProductRepository) { r.answerer = a }
}

func NewProductRepository(store vectorstore.Provider, logger *zap.Logger, opts ...Option) *ProductRepository {
	r := &ProductRepository{
		store:   store,
		timeout: defaultTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ObjectID deriva el ID interno a partir del ID externo y el nombre de la colección.
// Syncs repetidos del mismo producto apuntan siempre al mismo objeto.
func ObjectID(collection, productID string) string {
	namespace := uuid.NewSHA1(uuid.NameSpaceURL, []byte(collection))
	return uuid.NewSHA1(namespace, []byte(productID)).String()
}

// Insert crea el producto; falla con ErrAlreadyExists si ya existe
func (r *ProductRepository) Insert(ctx context.Context, product models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if product.ProductID == "" {
		return fmt.Errorf("%w: missing product_id", ErrInvalidProduct)
	}

	col, err := r.store.Collection(ctx)
	if err != nil {
		return r.fail("insert", product.ProductID, err)
	}

	id := ObjectID(r.store.Name(), product.ProductID)
	exists, err := col.Exists(ctx, id)
	if err != nil {
		return r.fail("insert", product.ProductID, err)
	}
	if exists {
		return ErrAlreadyExists
	}

	if err := col.Insert(ctx, id, toProperties(product)); err != nil {
		return r.fail("insert", product.ProductID, err)
	}

	r.logger.Debug("product inserted", zap.String("product_id", product.ProductID), zap.String("id", id))
	return nil
}

// Update reemplaza todos los campos; falla con ErrNotFound sin escribir si no existe
func (r *ProductRepository) Update(ctx context.Context, product models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if product.ProductID == "" {
		return fmt.Errorf("%w: missing product_id", ErrInvalidProduct)
	}

	col, err := r.store.Collection(ctx)
	if err != nil {
		return r.fail("update", product.ProductID, err)
	}

	id := ObjectID(r.store.Name(), product.ProductID)
	exists, err := col.Exists(ctx, id)
	if err != nil {
		return r.fail("update", product.ProductID, err)
	}
	if !exists {
		return ErrNotFound
	}

	if err := col.Replace(ctx, id, toProperties(product)); err != nil {
		return r.fail("update", product.ProductID, err)
	}

	r.logger.Debug("product updated", zap.String("product_id", product.ProductID), zap.String("id", id))
	return nil
}

// Delete elimina el producto y devuelve true si existía
func (r *ProductRepository) Delete(ctx context.Context, productID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if productID == "" {
		return false, fmt.Errorf("%w: missing product_id", ErrInvalidProduct)
	}

	col, err := r.store.Collection(ctx)
	if err != nil {
		return false, r.fail("delete", productID, err)
	}

	id := ObjectID(r.store.Name(), productID)
	exists, err := col.Exists(ctx, id)
	if err != nil {
		return false, r.fail("delete", productID, err)
	}
	if !exists {
		return false, ErrNotFound
	}

	if err := col.Delete(ctx, id); err != nil {
		return false, r.fail("delete", productID, err)
	}

	r.logger.Debug("product deleted", zap.String("product_id", productID), zap.String("id", id))
	return true, nil
}

// FindByID obtiene un producto por su ID externo
func (r *ProductRepository) FindByID(ctx context.Context, productID string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	col, err := r.store.Collection(ctx)
	if err != nil {
		return nil, r.fail("find", productID, err)
	}

	obj, err := col.Get(ctx, ObjectID(r.store.Name(), productID))
	if err != nil {
		return nil, r.fail("find", productID, err)
	}
	if obj == nil {
		return nil, ErrNotFound
	}

	product := fromProperties(obj.Properties)
	return &product, nil
}

// Search ejecuta la búsqueda semántica con el prompt de ventas agrupado.
// El timeout del repositorio cubre solo la consulta al vector store; el
// respaldo generativo corre con el ctx del llamador y su propio timeout.
func (r *ProductRepository) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	col, err := r.store.ExistingCollection(qctx)
	if err != nil {
		r.logger.Error("search failed", zap.String("collection", r.store.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	res, err := col.NearText(qctx, query, limit, SalesAssistantTask)
	if err != nil {
		r.logger.Error("search failed", zap.String("collection", r.store.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	out := &SearchResult{Answer: res.Answer, Results: make([]Match, 0, len(res.Matches))}
	for _, m := range res.Matches {
		out.Results = append(out.Results, Match{
			ID:       m.ID,
			Product:  fromProperties(m.Properties),
			Distance: m.Distance,
		})
	}

	if out.Answer == "" && len(out.Results) > 0 && r.answerer != nil {
		products := make([]models.Product, len(out.Results))
		for i, m := range out.Results {
			products[i] = m.Product
		}
		answer, err := r.answerer.Answer(ctx, SalesAssistantTask, products)
		if err != nil {
			r.logger.Warn("fallback answer failed", zap.Error(err))
		} else {
			out.Answer = answer
		}
	}

	return out, nil
}

// fail registra el error con contexto y lo devuelve envuelto
func (r *ProductRepository) fail(op, productID string, err error) error {
	r.logger.Error("repository operation failed",
		zap.String("operation", op),
		zap.String("product_id", productID),
		zap.String("collection", r.store.Name()),
		zap.Error(err),
	)
	return fmt.Errorf("%s product %s: %w", op, productID, err)
}
