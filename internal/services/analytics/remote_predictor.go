package analytics

import (
    "context"
    "fmt"
    "time"

    "AgroPulse/internal/domain/models"
    domsvc "AgroPulse/internal/domain/service"
    "AgroPulse/pkg/config"
)

// RemotePredictor delegates forecasting to an external prediction service.
type RemotePredictor struct{ base *HTTPServiceBase }

func NewRemotePredictor(cfg *config.Config) *RemotePredictor {
    return &RemotePredictor{base: NewHTTPServiceBase(cfg)}
}

type predictRequest struct {
    Snapshot models.FarmState `json:"snapshot"`
    Lang     models.Locale    `json:"lang"`
}

func (p *RemotePredictor) Predict(ctx context.Context, snapshot models.FarmState, locale models.Locale) (models.PredictionBundle, error) {
    var b models.PredictionBundle
    if err := p.base.PostJSON(ctx, "/predict", predictRequest{Snapshot: snapshot, Lang: locale}, &b); err != nil {
        if ctx.Err() != nil {
            return models.PredictionBundle{}, ctx.Err()
        }
        return models.PredictionBundle{}, fmt.Errorf("%w: %v", models.ErrRecomputeFailed, err)
    }
    if len(b.WeatherForecast) != models.ForecastDays || len(b.PestRiskForecast) != models.ForecastDays {
        return models.PredictionBundle{}, fmt.Errorf("%w: remote returned %d/%d forecast days",
            models.ErrRecomputeFailed, len(b.WeatherForecast), len(b.PestRiskForecast))
    }
    if b.GeneratedAt.IsZero() {
        b.GeneratedAt = time.Now()
    }
    b.SnapshotVersion = snapshot.Version
    b.Locale = locale
    return b, nil
}

var _ domsvc.PredictionProvider = (*RemotePredictor)(nil)
