package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/poseidon/internal/bag"
	"github.com/GriffinCanCode/poseidon/internal/export"
	"github.com/GriffinCanCode/poseidon/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/poseidon/internal/registry"
	"github.com/GriffinCanCode/poseidon/internal/utils"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *registry.Registry
	metrics  *monitoring.Metrics
	defaults export.Options
	logger   *zap.Logger
}

// NewHandlers creates a new handler set. defaults supplies the export options
// a request does not override.
func NewHandlers(reg *registry.Registry, metrics *monitoring.Metrics, defaults export.Options, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry: reg,
		metrics:  metrics,
		defaults: defaults,
		logger:   logger,
	}
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"registry": gin.H{
			"identity":   h.registry.Identity(),
			"size":       h.registry.Size(),
			"created_at": h.registry.CreatedAt(),
		},
		"metrics": h.metrics.Snapshot(),
	})
}

// ListEntries returns every entry in insertion order
func (h *Handlers) ListEntries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"identity": h.registry.Identity(),
		"size":     h.registry.Size(),
		"entries":  h.registry.Values(),
	})
}

// ListKeys returns the registered keys
func (h *Handlers) ListKeys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keys": h.registry.Keys()})
}

// GetEntry returns one entry
func (h *Handlers) GetEntry(c *gin.Context) {
	key := c.Param("key")

	value, err := h.registry.Get(key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// PutEntry registers a new entry. Existing keys are never overwritten.
func (h *Handlers) PutEntry(c *gin.Context) {
	key := c.Param("key")
	if err := utils.ValidateKey(key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	value, err := decodeValue(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registry.Add(key, value); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Debug("Registered entry", zap.String("key", key))
	c.JSON(http.StatusCreated, gin.H{"key": key, "value": value})
}

// DeleteEntry removes one entry
func (h *Handlers) DeleteEntry(c *gin.Context) {
	if err := h.registry.Remove(c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Flush clears the registry and returns what was removed
func (h *Handlers) Flush(c *gin.Context) {
	cleared := h.registry.Flush()

	h.logger.Info("Flushed registry", zap.Int("cleared", len(cleared)))
	c.JSON(http.StatusOK, gin.H{
		"cleared": len(cleared),
		"entries": cleared,
	})
}

// Export renders the registry in the requested format
func (h *Handlers) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	opts, err := h.exportOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timer := monitoring.NewTimer(h.metrics, string(format))
	body, err := export.Render(format, h.registry, opts)
	if err != nil {
		timer.Stop("error")
		respondError(c, err)
		return
	}
	timer.Stop("ok")

	if acceptsGzip(c.GetHeader("Accept-Encoding")) {
		compressed, err := export.Gzip(body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		body = compressed
	}

	c.Data(http.StatusOK, format.ContentType(), body)
}

func (h *Handlers) exportOptions(c *gin.Context) (export.Options, error) {
	opts := h.defaults
	opts.Keys = utils.SplitList(c.Query("keys"))
	opts.Exclude = utils.SplitList(c.Query("exclude"))

	flags := []struct {
		name string
		dst  *bool
	}{
		{"drop_keys", &opts.DropKeys},
		{"declaration", &opts.XMLDeclaration},
		{"indent", &opts.Indent},
	}
	for _, f := range flags {
		raw, ok := c.GetQuery(f.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid boolean for %s: %q", f.name, raw)
		}
		*f.dst = v
	}

	if root := c.Query("root"); root != "" {
		opts.XMLRoot = root
	}
	return opts, nil
}

// decodeValue reads {"value": ...} from the request body.
func decodeValue(c *gin.Context) (any, error) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxBodySize))
	if err != nil {
		return nil, errors.New("request body too large or unreadable")
	}

	var body map[string]any
	if err := sonic.Unmarshal(data, &body); err != nil {
		return nil, errors.New("request body must be a JSON object")
	}

	value, ok := body["value"]
	if !ok {
		return nil, errors.New(`request body must contain "value"`)
	}
	if err := utils.ValidateDepth(value, utils.MaxValueDepth); err != nil {
		return nil, err
	}
	return value, nil
}

func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		enc, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(enc, "gzip") {
			return true
		}
	}
	return false
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, bag.ErrKeyNotFound):
		status = http.StatusNotFound
	case errors.Is(err, bag.ErrKeyAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, export.ErrUnknownFormat):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
