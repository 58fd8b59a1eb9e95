package api

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"AgroPulse/internal/domain/models"
	advmetrics "AgroPulse/internal/service/metrics"
	xhttp "AgroPulse/pkg/http"
)

// readImage reads the multipart "image" field. Only metadata is kept.
func (h *FarmHandler) readImage(c echo.Context) (models.Image, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %v", models.ErrInvalidImage, err)
	}
	if fh.Size <= 0 {
		return models.Image{}, fmt.Errorf("%w: empty upload", models.ErrInvalidImage)
	}
	if fh.Size > h.opts.MaxImageBytes {
		return models.Image{}, fmt.Errorf("%w: %d bytes exceeds limit of %d", models.ErrInvalidImage, fh.Size, h.opts.MaxImageBytes)
	}
	return models.Image{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
	}, nil
}

func formLang(c echo.Context) models.Locale {
	if v := c.FormValue("lang"); v != "" {
		return models.NormalizeLocale(v)
	}
	return models.NormalizeLocale(c.QueryParam("lang"))
}

func (h *FarmHandler) IdentifyPest(c echo.Context) error {
	img, err := h.readImage(c)
	if err != nil {
		return h.fail(c, "pest identification", err)
	}
	start := time.Now()
	res, err := h.pests.IdentifyPest(c.Request().Context(), img, formLang(c))
	advmetrics.ObserveAdvisor("pest", start, err)
	if err != nil {
		return h.fail(c, "pest identification", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *FarmHandler) PlantHealth(c echo.Context) error {
	img, err := h.readImage(c)
	if err != nil {
		return h.fail(c, "plant health", err)
	}
	snap, err := h.sim.Snapshot()
	if err != nil {
		return h.fail(c, "plant health", err)
	}
	start := time.Now()
	res, err := h.plants.AnalyzeHealth(c.Request().Context(), img, snap, formLang(c))
	advmetrics.ObserveAdvisor("health", start, err)
	if err != nil {
		return h.fail(c, "plant health", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *FarmHandler) Recommendation(c echo.Context) error {
	locale, verr := lang(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	snap, err := h.sim.Snapshot()
	if err != nil {
		return h.fail(c, "recommendation", err)
	}
	start := time.Now()
	res, err := h.plants.Recommend(c.Request().Context(), snap, locale)
	advmetrics.ObserveAdvisor("recommendation", start, err)
	if err != nil {
		return h.fail(c, "recommendation", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *FarmHandler) SoilScore(c echo.Context) error {
	locale, verr := lang(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	snap, err := h.sim.Snapshot()
	if err != nil {
		return h.fail(c, "soil score", err)
	}
	start := time.Now()
	res, err := h.soil.Score(c.Request().Context(), snap.Conditions, snap.KeyMetrics.SoilMoisture.Value, locale)
	advmetrics.ObserveAdvisor("soil_score", start, err)
	if err != nil {
		return h.fail(c, "soil score", err)
	}
	return xhttp.SuccessResponse(c, res)
}
