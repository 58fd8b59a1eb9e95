package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"AgroPulse/internal/domain/models"
	domsvc "AgroPulse/internal/domain/service"
	"AgroPulse/internal/service/ratelimit"
	"AgroPulse/internal/usecase"
	xhttp "AgroPulse/pkg/http"
	xlogger "AgroPulse/pkg/logger"
)

// Options holds handler limits.
type Options struct {
	MaxImageBytes int64
	RefreshBurst  float64
	RefreshPerSec float64
}

// FarmHandler implements the farm dashboard API.
type FarmHandler struct {
	logger     *xlogger.Logger
	sim        *usecase.Simulator
	alerts     *usecase.AlertEvaluator
	recompute  *usecase.RecomputeTrigger
	market     *usecase.MarketFeed
	irrigation *usecase.IrrigationController
	dashboard  *usecase.DashboardUseCase
	pests      domsvc.ImageClassifier
	plants     domsvc.PlantAdvisor
	soil       domsvc.SoilScorer
	limiter    *ratelimit.Limiter
	opts       Options
	started    time.Time
}

func NewFarmHandler(
	logger *xlogger.Logger,
	sim *usecase.Simulator,
	alerts *usecase.AlertEvaluator,
	recompute *usecase.RecomputeTrigger,
	market *usecase.MarketFeed,
	irrigation *usecase.IrrigationController,
	dashboard *usecase.DashboardUseCase,
	pests domsvc.ImageClassifier,
	plants domsvc.PlantAdvisor,
	soil domsvc.SoilScorer,
	limiter *ratelimit.Limiter,
	opts Options,
) *FarmHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = 10 << 20
	}
	if opts.RefreshBurst <= 0 {
		opts.RefreshBurst = 5
	}
	if opts.RefreshPerSec <= 0 {
		opts.RefreshPerSec = 1
	}
	return &FarmHandler{
		logger:     logger.Named("api"),
		sim:        sim,
		alerts:     alerts,
		recompute:  recompute,
		market:     market,
		irrigation: irrigation,
		dashboard:  dashboard,
		pests:      pests,
		plants:     plants,
		soil:       soil,
		limiter:    limiter,
		opts:       opts,
		started:    time.Now(),
	}
}

func (h *FarmHandler) RegisterRoutes(e *echo.Echo) {
	limit := h.limiter.Middleware(h.opts.RefreshBurst, h.opts.RefreshPerSec)

	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/farm", h.Farm)
	g.GET("/farm/alerts", h.Alerts)
	g.GET("/dashboard", h.Dashboard)

	g.GET("/predictions", h.Predictions)
	g.POST("/predictions/refresh", h.RefreshPredictions, limit)
	g.PUT("/predictions/polling", h.SetPolling)

	g.GET("/market", h.Market)
	g.POST("/market/refresh", h.RefreshMarket, limit)

	g.POST("/advisor/pest", h.IdentifyPest)
	g.POST("/advisor/health", h.PlantHealth)
	g.GET("/advisor/recommendation", h.Recommendation)
	g.GET("/advisor/soil-score", h.SoilScore)

	g.GET("/irrigation", h.Irrigation)
	g.PUT("/irrigation", h.UpdateIrrigation)
	g.POST("/irrigation/manual", h.ManualIrrigation)
}

func (h *FarmHandler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= 500 {
		h.logger.Error(op+" failed", xlogger.Error(err))
	} else {
		h.logger.Debug(op+" rejected", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

// queryLang is the normalized ?lang= value, or empty when the query has none.
func queryLang(c echo.Context) models.Locale {
	q := c.QueryParam("lang")
	if q == "" {
		return ""
	}
	return models.NormalizeLocale(q)
}

func lang(c echo.Context) (models.Locale, []xhttp.ValidationError) {
	req := &LangRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return "", verr
	}
	if q := c.QueryParam("lang"); q != "" {
		req.Lang = q
	}
	return models.NormalizeLocale(req.Lang), nil
}
