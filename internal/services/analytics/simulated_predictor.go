package analytics

import (
    "context"
    "fmt"
    "math"
    "time"

    "AgroPulse/internal/domain/models"
    domsvc "AgroPulse/internal/domain/service"
    "AgroPulse/internal/services/features"
    "AgroPulse/pkg/util"

    "github.com/go-playground/validator/v10"
)

// Source is a uniform [0,1) random draw.
type Source interface {
    Float64() float64
}

var validate = validator.New()

// SimulatedPredictor produces plausible forecasts from a snapshot after a fixed latency.
//
// Weather follows a two-state chain: from a fair day the next one is Sunny 60%, Cloudy 30%,
// Rainy 10%; from a wet day Rainy 40%, Cloudy 40%, Sunny 20%. Pest risk oscillates around the
// mean sector risk and gains 15 points on warm dry days. Yield is derived from NDVI, soil
// moisture and the number of rainy days.
type SimulatedPredictor struct {
    rng     Source
    latency time.Duration
    clock   func() time.Time
}

func NewSimulatedPredictor(rng Source, latency time.Duration) *SimulatedPredictor {
    return &SimulatedPredictor{rng: rng, latency: latency, clock: time.Now}
}

func (p *SimulatedPredictor) Predict(ctx context.Context, snapshot models.FarmState, locale models.Locale) (models.PredictionBundle, error) {
    if err := wait(ctx, p.latency); err != nil {
        return models.PredictionBundle{}, err
    }

    in := features.Extract(snapshot)
    if err := validate.StructCtx(ctx, in); err != nil {
        return models.PredictionBundle{}, fmt.Errorf("%w: invalid snapshot: %v", models.ErrRecomputeFailed, err)
    }

    now := p.clock()
    weather := p.weatherForecast(in.Condition, now, locale)
    risk := p.pestRiskForecast(in.MeanPestRisk, weather, now, locale)

    yield := features.BaseYield(in.NDVI, in.SoilMoisture) + features.RainAdjustment(features.RainyDays(weather))
    prediction := models.YieldPrediction{
        Value:   util.Round(yield, 2),
        Unit:    models.YieldUnit,
        Factors: []string{"yieldFactorGoodNDVI", "yieldFactorGoodWeather", "yieldFactorLowPest"},
    }

    return models.PredictionBundle{
        WeatherForecast:  weather,
        PestRiskForecast: risk,
        YieldPrediction:  prediction,
        HistoricalYield:  p.historicalYield(prediction.Value, now),
        GeneratedAt:      now,
        SnapshotVersion:  snapshot.Version,
        Locale:           locale,
    }, nil
}

func (p *SimulatedPredictor) weatherForecast(start models.WeatherCondition, now time.Time, locale models.Locale) []models.DayForecast {
    out := make([]models.DayForecast, 0, models.ForecastDays)
    last := start
    for i := 0; i < models.ForecastDays; i++ {
        temp := 25 + math.Sin(float64(i))*3 + (p.rng.Float64()-0.5)*4
        last = nextCondition(last, p.rng.Float64())
        out = append(out, models.DayForecast{
            Day:       models.DayName(locale, now.AddDate(0, 0, i)),
            Condition: last,
            Temp:      util.Round(temp, 1),
        })
    }
    return out
}

func nextCondition(prev models.WeatherCondition, u float64) models.WeatherCondition {
    if prev.IsWet() {
        switch {
        case u < 0.4:
            return models.Rainy
        case u < 0.8:
            return models.Cloudy
        default:
            return models.Sunny
        }
    }
    switch {
    case u < 0.6:
        return models.Sunny
    case u < 0.9:
        return models.Cloudy
    default:
        return models.Rainy
    }
}

func (p *SimulatedPredictor) pestRiskForecast(base float64, weather []models.DayForecast, now time.Time, locale models.Locale) []models.PestRiskPoint {
    out := make([]models.PestRiskPoint, 0, models.ForecastDays)
    for i := 0; i < models.ForecastDays; i++ {
        risk := base + math.Sin(float64(i))*15 + (p.rng.Float64()-0.5)*20
        if weather[i].Temp > 26 && weather[i].Condition != models.Rainy {
            risk += 15
        }
        out = append(out, models.PestRiskPoint{
            Day:  models.DayName(locale, now.AddDate(0, 0, i)),
            Risk: util.Clamp(util.Round(risk, 1), 0, 100),
        })
    }
    return out
}

func (p *SimulatedPredictor) historicalYield(current float64, now time.Time) []models.HistoricalPoint {
    out := make([]models.HistoricalPoint, 0, models.HistoryDays)
    last := current - (p.rng.Float64()-0.5)*0.5
    for i := models.HistoryDays - 1; i >= 0; i-- {
        last += (p.rng.Float64() - 0.48) * 0.05
        out = append(out, models.HistoricalPoint{
            Day:   util.MonthDay(util.DaysAgo(now, i)),
            Value: util.Round(util.Clamp(last, 3.0, 6.0), 2),
        })
    }
    return out
}

var _ domsvc.PredictionProvider = (*SimulatedPredictor)(nil)
