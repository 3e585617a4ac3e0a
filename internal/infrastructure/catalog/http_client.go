package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsuarez/inventario-api/internal/application/inventory"
	"github.com/jsuarez/inventario-api/internal/domain/entity"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

// Verificar en tiempo de compilación que HTTPClient implementa CatalogClient.
var _ inventory.CatalogClient = (*HTTPClient)(nil)

const (
	productPath  = "/api/v1/productos/"
	apiKeyHeader = "X-API-Key"
	maxBodyBytes = 64 * 1024
)

// Config parámetros del cliente del catálogo.
type Config struct {
	BaseURL        string
	APIKey         string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// HTTPClient adaptador del microservicio de productos sobre net/http.
// Una sola llamada por consulta, sin reintentos ni caché.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewHTTPClient construye el adaptador. ConnectTimeout limita el dial; ReadTimeout la espera
// de cabeceras y la llamada completa.
func NewHTTPClient(cfg Config, log *logger.Logger) *HTTPClient {
	if log == nil {
		log = logger.Nop()
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout,
		},
		log: log.Named("catalog"),
	}
}

// ── Estructuras del protocolo del catálogo (JSON:API) ─────────────────────────

type productEnvelope struct {
	Data *struct {
		ID         string `json:"id"`
		Type       string `json:"type"`
		Attributes struct {
			Name  string           `json:"nombre"`
			Price *decimal.Decimal `json:"precio"`
		} `json:"attributes"`
	} `json:"data"`
	Message string `json:"message"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Lookup consulta GET {base}/api/v1/productos/{id}.
// 404 o data nula: ausente. Cualquier otro fallo (conexión, timeout, 5xx, JSON inválido): transporte.
func (c *HTTPClient) Lookup(ctx context.Context, productID int64) entity.CatalogResult {
	url := c.baseURL + productPath + strconv.FormatInt(productID, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return entity.TransportFailure(fmt.Errorf("catálogo: crear HTTP request: %w", err))
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Int64("producto_id", productID).Str("url", url).Msg("consultando catálogo")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		c.log.Error().Err(err).Int64("producto_id", productID).Msg("no se pudo conectar con el catálogo")
		return entity.TransportFailure(fmt.Errorf("catálogo: llamada HTTP fallida: %w", err))
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return entity.TransportFailure(fmt.Errorf("catálogo: leer respuesta: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.log.Warn().Int64("producto_id", productID).Msg("producto no encontrado en el catálogo")
		return entity.AbsentUpstream()
	case resp.StatusCode != http.StatusOK:
		c.log.Error().Int("status", resp.StatusCode).Int64("producto_id", productID).Msg("respuesta inesperada del catálogo")
		return entity.TransportFailure(fmt.Errorf("catálogo: HTTP %d: %s", resp.StatusCode, string(rawBody)))
	}

	var envelope productEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return entity.TransportFailure(fmt.Errorf("catálogo: deserializar respuesta: %w", err))
	}
	if envelope.Data == nil {
		c.log.Warn().Int64("producto_id", productID).Msg("catálogo respondió sin datos")
		return entity.AbsentUpstream()
	}

	id := productID
	if envelope.Data.ID != "" {
		if parsed, err := strconv.ParseInt(envelope.Data.ID, 10, 64); err == nil {
			id = parsed
		}
	}
	return entity.Found(&entity.ProductSnapshot{
		ProductID: id,
		Name:      envelope.Data.Attributes.Name,
		UnitPrice: envelope.Data.Attributes.Price,
	})
}

// Exists es Lookup sin interés en el contenido: mismos tres resultados.
func (c *HTTPClient) Exists(ctx context.Context, productID int64) entity.CatalogResult {
	return c.Lookup(ctx, productID)
}
