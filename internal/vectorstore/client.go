package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"go.uber.org/zap"
)

const openAIKeyHeader = "X-OpenAI-Api-Key"

type Config struct {
	URL          string
	APIKey       string
	OpenAIAPIKey string
	Timeout      time.Duration
}

// Client mantiene una única conexión a Weaviate, creada en el primer uso.
// Solo se memoriza una conexión exitosa; un fallo puede reintentarse en otra llamada.
type Client struct {
	cfg    Config
	logger *zap.Logger

	mu   sync.Mutex
	conn *weaviate.Client

	ensuredMu sync.Mutex
	ensured   map[string]bool
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		logger:  logger,
		ensured: make(map[string]bool),
	}
}

// Connection devuelve el handle memorizado, autenticando en la primera llamada
func (c *Client) Connection(ctx context.Context) (*weaviate.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	if c.cfg.URL == "" || c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: WEAVIATE_URL and WEAVIATE_API_KEY are required", ErrConnection)
	}

	scheme, host, err := splitURL(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	headers := map[string]string{}
	if c.cfg.OpenAIAPIKey != "" {
		headers[openAIKeyHeader] = c.cfg.OpenAIAPIKey
	}

	// AuthConfig y ConnectionClient son excluyentes; cada llamada ya lleva su propio timeout
	conn, err := weaviate.NewClient(weaviate.Config{
		Host:           host,
		Scheme:         scheme,
		Headers:        headers,
		AuthConfig:     auth.ApiKey{Value: c.cfg.APIKey},
		StartupTimeout: c.cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	live, err := conn.Misc().LiveChecker().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if !live {
		return nil, fmt.Errorf("%w: %s is not live", ErrConnection, host)
	}

	c.logger.Info("connected to vector store", zap.String("host", host))
	c.conn = conn
	return conn, nil
}

// splitURL separa esquema y host; sin esquema se asume https (Weaviate Cloud)
func splitURL(raw string) (scheme, host string, err error) {
	raw = strings.TrimSpace(raw)
	scheme = "https"
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme, raw = strings.ToLower(raw[:i]), raw[i+3:]
	}
	host = strings.TrimRight(raw, "/")
	if host == "" {
		return "", "", errors.New("empty vector store host")
	}
	if scheme != "http" && scheme != "https" {
		return "", "", fmt.Errorf("unsupported scheme %q", scheme)
	}
	return scheme, host, nil
}

// classify marca como ErrConnection los errores de transporte
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	var clientErr *fault.WeaviateClientError
	if errors.As(err, &clientErr) && !clientErr.IsUnexpectedStatusCode {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return err
}
