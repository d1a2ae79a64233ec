package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// CatalogConfig configures the embedded catalog data layer: the upstream
// API base URL and the bbolt file used as the offline fallback cache.
type CatalogConfig struct {
	ApiUrl    string `yaml:"api_url" json:"api_url"`
	CachePath string `yaml:"cache_path" json:"cache_path"`
	Timeout   int    `yaml:"timeout" json:"timeout"`
}

type SmtpConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	AdminTo  string `yaml:"admin_to" json:"admin_to"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
	Catalog  CatalogConfig `yaml:"catalog" json:"catalog"`
	Smtp     SmtpConfig    `yaml:"smtp" json:"smtp"`
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) InitDirs() error {
	for _, dir := range []string{c.System.Workdir, c.GetLogDir(), c.GetDataDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Jam3a",
		Location: "Asia/Riyadh",
		Workdir:  "/var/jam3a",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-jam3a-1816-api-0cc138bf6f68",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "jam3a_v1",
		User:     "postgres",
		Passwd:   "jam3apwd",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/jam3a/jam3a.log",
	},
	Catalog: CatalogConfig{
		ApiUrl:    "http://127.0.0.1:1816/api/v1",
		CachePath: "/var/jam3a/data/catalog_cache.db",
		Timeout:   10,
	},
	Smtp: SmtpConfig{
		Enabled: false,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@jam3a.example",
	},
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		if p, err := strconv.ParseInt(evalue, 10, 64); err == nil {
			*val = int(p)
		}
	}
}

// LoadConfig loads the YAML configuration file and applies environment
// variable overrides. A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "%s\n", errors.Wrapf(err, "parse config %s", cfile))
			}
		}
	}

	setEnvValue("JAM3A_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("JAM3A_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("JAM3A_WEB_HOST", &cfg.Web.Host)
	setEnvValue("JAM3A_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("JAM3A_WEB_PORT", &cfg.Web.Port)

	setEnvValue("JAM3A_DB_TYPE", &cfg.Database.Type)
	setEnvValue("JAM3A_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("JAM3A_DB_PORT", &cfg.Database.Port)
	setEnvValue("JAM3A_DB_NAME", &cfg.Database.Name)
	setEnvValue("JAM3A_DB_USER", &cfg.Database.User)
	setEnvValue("JAM3A_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("JAM3A_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("JAM3A_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("JAM3A_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("JAM3A_CATALOG_API_URL", &cfg.Catalog.ApiUrl)
	setEnvValue("JAM3A_CATALOG_CACHE_PATH", &cfg.Catalog.CachePath)

	setEnvValue("JAM3A_SMTP_HOST", &cfg.Smtp.Host)
	setEnvValue("JAM3A_SMTP_USER", &cfg.Smtp.Username)
	setEnvValue("JAM3A_SMTP_PWD", &cfg.Smtp.Password)

	return cfg
}
