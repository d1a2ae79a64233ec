package app

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jam3ahq/jam3a/config"
	"github.com/jam3ahq/jam3a/internal/domain"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, derr := db.DB(); derr == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	a := NewApplication(config.DefaultAppConfig)
	a.OverrideDB(db)
	return a
}

func seedDeal(t *testing.T, a *Application, d domain.Deal) {
	t.Helper()
	if err := a.DB().Create(&d).Error; err != nil {
		t.Fatalf("seed deal: %v", err)
	}
}

func TestSweepDealsCompletesFullDeals(t *testing.T) {
	a := newTestApp(t)
	future := time.Now().Add(24 * time.Hour)

	seedDeal(t, a, domain.Deal{ID: 1, Code: "J3A-1", Title: "full",
		Status: domain.DealStatusActive, CurrentParticipants: 10, MaxParticipants: 10, ExpiresAt: future})
	seedDeal(t, a, domain.Deal{ID: 2, Code: "J3A-2", Title: "in progress",
		Status: domain.DealStatusActive, CurrentParticipants: 3, MaxParticipants: 10, ExpiresAt: future})

	events := make(chan domain.Deal, 1)
	if err := a.Bus().Subscribe(EventDealCompleted, func(d domain.Deal) { events <- d }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	completed, cancelled := a.SweepDeals()
	if completed != 1 || cancelled != 0 {
		t.Fatalf("expected 1 completed 0 cancelled, got %d %d", completed, cancelled)
	}

	var d domain.Deal
	a.DB().First(&d, "id = ?", 1)
	if d.Status != domain.DealStatusCompleted {
		t.Errorf("full deal should be completed, got %s", d.Status)
	}
	d = domain.Deal{}
	a.DB().First(&d, "id = ?", 2)
	if d.Status != domain.DealStatusActive {
		t.Errorf("partial deal must stay active, got %s", d.Status)
	}

	select {
	case evt := <-events:
		if evt.ID != 1 {
			t.Errorf("event for wrong deal %d", evt.ID)
		}
	case <-time.After(2 * time.Second):
		t.Error("completion event not published")
	}
}

func TestSweepDealsCancelsExpired(t *testing.T) {
	a := newTestApp(t)

	seedDeal(t, a, domain.Deal{ID: 1, Code: "J3A-1", Title: "expired",
		Status: domain.DealStatusActive, CurrentParticipants: 1, MaxParticipants: 10,
		ExpiresAt: time.Now().Add(-time.Hour)})
	seedDeal(t, a, domain.Deal{ID: 2, Code: "J3A-2", Title: "pending expired",
		Status: domain.DealStatusPending, ExpiresAt: time.Now().Add(-time.Hour)})

	completed, cancelled := a.SweepDeals()
	if completed != 0 || cancelled != 1 {
		t.Fatalf("expected 0 completed 1 cancelled, got %d %d", completed, cancelled)
	}

	var d domain.Deal
	a.DB().First(&d, "id = ?", 1)
	if d.Status != domain.DealStatusCancelled {
		t.Errorf("expired active deal should be cancelled, got %s", d.Status)
	}
	d = domain.Deal{}
	a.DB().First(&d, "id = ?", 2)
	if d.Status != domain.DealStatusPending {
		t.Errorf("sweep only touches active deals, got %s", d.Status)
	}

	// sweeping again is a no-op
	completed, cancelled = a.SweepDeals()
	if completed != 0 || cancelled != 0 {
		t.Fatalf("second sweep should change nothing, got %d %d", completed, cancelled)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	a := newTestApp(t)

	if err := a.SaveSettings("analytics", map[string]interface{}{
		"provider":    "plausible",
		"enabled":     true,
		"sample_rate": 0.5,
	}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	if got := a.GetSettingsStringValue("analytics", "provider"); got != "plausible" {
		t.Errorf("provider = %q", got)
	}
	if !a.GetSettingsBoolValue("analytics", "enabled") {
		t.Error("enabled should be true")
	}

	// updates overwrite in place
	if err := a.SaveSettings("analytics", map[string]interface{}{"provider": "ga4"}); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if got := a.GetSettingsStringValue("analytics", "provider"); got != "ga4" {
		t.Errorf("provider after update = %q", got)
	}

	category := a.ConfigMgr().GetCategory("analytics")
	if len(category) != 3 || category["provider"] != "ga4" {
		t.Errorf("unexpected category map %v", category)
	}
}
