package adminapi

import (
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jam3ahq/jam3a/config"
	"github.com/jam3ahq/jam3a/internal/app"
	"github.com/jam3ahq/jam3a/internal/domain"
)

// newTestApp builds an application over an in-memory database with the
// schema migrated, bypassing the full Init path.
func newTestApp(t *testing.T) *app.Application {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a second pooled connection would see its own empty :memory: database
	if sqlDB, derr := db.DB(); derr == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	application := app.NewApplication(config.DefaultAppConfig)
	application.OverrideDB(db)
	return application
}

// newTestContext builds an echo context carrying the app and db values
// the way the injector middleware does in production.
func newTestContext(t *testing.T, application *app.Application, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("app", app.AppContext(application))
	c.Set("db", application.DB())
	return c, rec
}

func seedCategory(t *testing.T, application *app.Application, id int64, name string) {
	t.Helper()
	if err := application.DB().Create(&domain.ProductCategory{ID: id, Name: name}).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
}
