package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jam3ahq/jam3a/internal/domain"
	"github.com/jam3ahq/jam3a/pkg/common"
)

// ConfigManager reads runtime settings from the sys_config table with a
// small in-memory cache. Values are stored as strings and converted on
// read with cast.
type ConfigManager struct {
	app   *Application
	mu    sync.RWMutex
	cache map[string]string
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{
		app:   app,
		cache: make(map[string]string),
	}
}

func cacheKey(category, name string) string {
	return category + "/" + name
}

func (m *ConfigManager) lookup(category, name string) string {
	m.mu.RLock()
	if v, ok := m.cache[cacheKey(category, name)]; ok {
		m.mu.RUnlock()
		return v
	}
	m.mu.RUnlock()

	var cfg domain.SysConfig
	err := m.app.DB().Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return ""
	}

	m.mu.Lock()
	m.cache[cacheKey(category, name)] = cfg.Value
	m.mu.Unlock()
	return cfg.Value
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.lookup(category, name)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.lookup(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.lookup(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.lookup(category, name))
}

// Save upserts the given settings under a category and invalidates the
// cached entries.
func (m *ConfigManager) Save(category string, settings map[string]interface{}) error {
	db := m.app.DB()
	for name, value := range settings {
		sval := cast.ToString(value)
		var cfg domain.SysConfig
		err := db.Where("type = ? and name = ?", category, name).First(&cfg).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			if cerr := db.Create(&domain.SysConfig{
				ID:        common.UUIDint64(),
				Type:      category,
				Name:      name,
				Value:     sval,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}).Error; cerr != nil {
				return cerr
			}
		case err != nil:
			return err
		default:
			if uerr := db.Model(&domain.SysConfig{}).Where("id = ?", cfg.ID).
				Updates(map[string]interface{}{"value": sval, "updated_at": time.Now()}).Error; uerr != nil {
				return uerr
			}
		}

		m.mu.Lock()
		m.cache[cacheKey(category, name)] = sval
		m.mu.Unlock()
	}
	zap.L().Info("settings saved", zap.String("category", category), zap.Int("count", len(settings)))
	return nil
}

// GetCategory returns all settings under a category as a map.
func (m *ConfigManager) GetCategory(category string) map[string]string {
	var rows []domain.SysConfig
	result := make(map[string]string)
	if err := m.app.DB().Where("type = ?", category).Find(&rows).Error; err != nil {
		return result
	}
	for _, row := range rows {
		result[row.Name] = row.Value
	}
	return result
}
