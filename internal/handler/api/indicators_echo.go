package api

import (
	"net/http"
	"net/url"
	"time"

	"MacroPull/internal/domain/models"
	"MacroPull/internal/usecase"
	"MacroPull/pkg/cache"
	xhttp "MacroPull/pkg/http"
	xlogger "MacroPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// IndicatorsEchoHandler serves the cached indicator surface. Every route
// reads from the in-process caches via the resolver; no request ever
// triggers an upstream fetch.
type IndicatorsEchoHandler struct {
	logger    *xlogger.Logger
	resolver  *usecase.Resolver
	respCache cache.Service
	respTTL   time.Duration
}

func NewIndicatorsEchoHandler(logger *xlogger.Logger, resolver *usecase.Resolver) *IndicatorsEchoHandler {
	return &IndicatorsEchoHandler{logger: logger, resolver: resolver}
}

// SetResponseCache enables short-lived caching of resolved payloads.
func (h *IndicatorsEchoHandler) SetResponseCache(c cache.Service, ttl time.Duration) {
	h.respCache = c
	h.respTTL = ttl
}

func (h *IndicatorsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/indicators", h.Indicators)
	g.GET("/indicator/:name", h.Indicator)
	g.GET("/history/:name", h.History)
	g.GET("/composite", h.Composite)
}

// Indicators resolves every registered indicator in one response.
func (h *IndicatorsEchoHandler) Indicators(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.resolver.ResolveAll())
}

// Indicator resolves a single indicator by display name. Names containing
// slashes arrive percent-encoded in the path.
func (h *IndicatorsEchoHandler) Indicator(c echo.Context) error {
	name := paramName(c)

	if h.respCache != nil {
		var cached models.IndicatorResult
		key := cache.GenerateKey("indicator", name)
		if err := h.respCache.Get(c.Request().Context(), key, &cached); err == nil {
			return xhttp.SuccessResponse(c, cached)
		}
	}

	res := h.resolver.Resolve(name)
	if h.respCache != nil && res.Error == "" {
		key := cache.GenerateKey("indicator", name)
		if err := h.respCache.Set(c.Request().Context(), key, res, h.respTTL); err != nil {
			h.logger.Warn("response cache set failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, res)
}

// History returns the trailing window for one indicator. Unknown names
// yield an empty window rather than an error.
func (h *IndicatorsEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.resolver.History(paramName(c))
	if len(res.Values) > req.Limit {
		res.Values = res.Values[len(res.Values)-req.Limit:]
	}
	return xhttp.SuccessResponse(c, res)
}

// Composite returns the latest stress snapshot.
func (h *IndicatorsEchoHandler) Composite(c echo.Context) error {
	snap, ok := h.resolver.Composite()
	if !ok {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_NOT_COMPUTED", "", "composite not computed yet", http.StatusServiceUnavailable))
	}
	return xhttp.SuccessResponse(c, snap)
}

func paramName(c echo.Context) string {
	name := c.Param("name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
