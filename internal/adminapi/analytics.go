package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/montanaflynn/stats"

	"github.com/jam3ahq/jam3a/internal/domain"
	"github.com/jam3ahq/jam3a/internal/webserver"
	"github.com/jam3ahq/jam3a/pkg/metrics"
)

// AnalyticsConfig is the storefront tracking configuration kept in
// sys_config under the analytics category.
type AnalyticsConfig struct {
	Provider   string  `json:"provider" mapstructure:"provider"`
	TrackingID string  `json:"tracking_id" mapstructure:"tracking_id"`
	Enabled    bool    `json:"enabled" mapstructure:"enabled"`
	SampleRate float64 `json:"sample_rate" mapstructure:"sample_rate"`
}

func registerAnalyticsRoutes() {
	webserver.ApiGET("/analytics/config", getAnalyticsConfig)
	webserver.ApiPOST("/analytics/config", saveAnalyticsConfig)
	webserver.ApiGET("/analytics/data", getAnalyticsData)
}

// decodeAnalyticsConfig maps the string settings rows onto the typed
// config. Values come back from sys_config as strings, so the decode is
// weakly typed.
func decodeAnalyticsConfig(raw map[string]string) (AnalyticsConfig, error) {
	var cfg AnalyticsConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, err
	}
	return cfg, decoder.Decode(raw)
}

func getAnalyticsConfig(c echo.Context) error {
	raw := GetApp(c).ConfigMgr().GetCategory("analytics")
	cfg, err := decodeAnalyticsConfig(raw)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CONFIG_ERROR", "Failed to decode analytics config", err.Error())
	}
	return ok(c, cfg)
}

func saveAnalyticsConfig(c echo.Context) error {
	var cfg AnalyticsConfig
	if err := c.Bind(&cfg); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse analytics config", err.Error())
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "sample_rate must be between 0 and 1", nil)
	}
	err := GetApp(c).SaveSettings("analytics", map[string]interface{}{
		"provider":    cfg.Provider,
		"tracking_id": cfg.TrackingID,
		"enabled":     cfg.Enabled,
		"sample_rate": cfg.SampleRate,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save analytics config", err.Error())
	}
	oprLog(c, "analytics_config", "updated analytics configuration")
	return ok(c, cfg)
}

type analyticsData struct {
	Products struct {
		Total       int64   `json:"total"`
		Featured    int64   `json:"featured"`
		AvgPrice    float64 `json:"avg_price"`
		MedianPrice float64 `json:"median_price"`
		MaxPrice    float64 `json:"max_price"`
	} `json:"products"`
	Deals struct {
		Total         int64   `json:"total"`
		Active        int64   `json:"active"`
		Completed     int64   `json:"completed"`
		AvgDiscount   float64 `json:"avg_discount"`
		FillRate      float64 `json:"fill_rate"`
		Participants  int64   `json:"participants"`
		JoinsLastHour float64 `json:"joins_last_hour"`
	} `json:"deals"`
	GeneratedAt time.Time `json:"generated_at"`
}

// getAnalyticsData aggregates store counters for the admin dashboard.
func getAnalyticsData(c echo.Context) error {
	db := GetDB(c)
	var data analyticsData
	data.GeneratedAt = time.Now()

	db.Model(&domain.Product{}).Count(&data.Products.Total)
	db.Model(&domain.Product{}).Where("featured = ?", true).Count(&data.Products.Featured)

	var prices []float64
	db.Model(&domain.Product{}).Pluck("price", &prices)
	if len(prices) > 0 {
		data.Products.AvgPrice, _ = stats.Mean(prices)
		data.Products.MedianPrice, _ = stats.Median(prices)
		data.Products.MaxPrice, _ = stats.Max(prices)
	}

	db.Model(&domain.Deal{}).Count(&data.Deals.Total)
	db.Model(&domain.Deal{}).Where("status = ?", domain.DealStatusActive).Count(&data.Deals.Active)
	db.Model(&domain.Deal{}).Where("status = ?", domain.DealStatusCompleted).Count(&data.Deals.Completed)
	db.Model(&domain.DealParticipant{}).Count(&data.Deals.Participants)

	var discounts []float64
	db.Model(&domain.Deal{}).Pluck("discount_percent", &discounts)
	if len(discounts) > 0 {
		data.Deals.AvgDiscount, _ = stats.Mean(discounts)
	}

	var fills []float64
	var deals []domain.Deal
	db.Select("current_participants", "max_participants").Find(&deals)
	for _, d := range deals {
		if d.MaxParticipants > 0 {
			fills = append(fills, float64(d.CurrentParticipants)/float64(d.MaxParticipants))
		}
	}
	if len(fills) > 0 {
		data.Deals.FillRate, _ = stats.Mean(fills)
	}

	data.Deals.JoinsLastHour = metrics.Latest("deal_joins_total")

	return ok(c, data)
}
