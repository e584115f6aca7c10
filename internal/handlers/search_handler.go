package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-search/internal/cache"
	"catalog-search/internal/metrics"
	"catalog-search/internal/models"
	"catalog-search/internal/repository"
)

const SearchCachePrefix = "search:"

type ProductSearcher interface {
	Search(ctx context.Context, query string, limit int) (*repository.SearchResult, error)
}

type SearchQuery struct {
	Query string `form:"query" binding:"required"`
}

type SearchHandler struct {
	products ProductSearcher
	cache    *cache.Cache
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewSearchHandler crea el handler; cache y metrics pueden ser nil
func NewSearchHandler(products ProductSearcher, c *cache.Cache, m *metrics.Metrics, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		products: products,
		cache:    c,
		metrics:  m,
		logger:   logger,
	}
}

// GET /search-tool?query=
func (h *SearchHandler) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil || strings.TrimSpace(q.Query) == "" {
		verr := &ValidationError{Field: "query", Message: "query is required"}
		c.JSON(http.StatusBadRequest, SearchResponse{Success: false, Message: verr.Error()})
		return
	}

	key := cacheKey(q.Query)
	var gen uint64
	if h.cache != nil {
		gen = h.cache.Generation()
		var cached SearchData
		found, err := h.cache.Unmarshal(key, &cached)
		if err != nil {
			h.logger.Warn("search cache entry unreadable", zap.Error(err))
		}
		h.recordCache(found)
		if found {
			c.JSON(http.StatusOK, SearchResponse{Success: true, Data: &cached})
			return
		}
	}

	result, err := h.products.Search(c.Request.Context(), q.Query, repository.DefaultSearchLimit)
	if err != nil {
		// el texto de la consulta no se registra ni se devuelve
		h.logger.Error("search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, SearchResponse{Success: false, Message: "Internal server error"})
		return
	}

	data := toSearchData(result)
	if h.cache != nil {
		// un webhook pudo invalidar el caché mientras se buscaba
		if _, err := h.cache.MarshalIfUnchanged(gen, key, data); err != nil {
			h.logger.Warn("search response not cached", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, SearchResponse{Success: true, Data: data})
}

func (h *SearchHandler) recordCache(hit bool) {
	if h.metrics != nil {
		h.metrics.RecordCache(hit)
	}
}

func toSearchData(result *repository.SearchResult) *SearchData {
	data := &SearchData{Answer: result.Answer, Products: make([]models.ProductView, 0, len(result.Results))}
	for _, m := range result.Results {
		data.Products = append(data.Products, m.Product.View(m.ID))
	}
	return data
}

// cacheKey normaliza mayúsculas y espacios de la consulta
func cacheKey(query string) string {
	return SearchCachePrefix + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
