package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// RemoteConfig points at the demo catalog/auth API.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig controls the auth collaborator. Mode "local" authenticates
// operators from the embedded database; "remote" delegates to the demo API.
type SessionConfig struct {
	Mode      string        `yaml:"mode"`
	AccessTTL time.Duration `yaml:"access_ttl"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

type AppConfig struct {
	System  SysConfig     `yaml:"system"`
	Web     WebConfig     `yaml:"web"`
	Logger  LogConfig     `yaml:"logger"`
	Remote  RemoteConfig  `yaml:"remote"`
	Session SessionConfig `yaml:"session"`
	Data    DataConfig    `yaml:"data"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "StoreAdmin",
		Location: "Asia/Shanghai",
		Workdir:  "/var/storeadmin",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1820,
		Secret: "9b6de5cc-storeadmin-0cc9a8e0",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storeadmin/storeadmin.log",
	},
	Remote: RemoteConfig{
		BaseURL: "https://dummyjson.com",
		Timeout: 10 * time.Second,
	},
	Session: SessionConfig{
		Mode:      "local",
		AccessTTL: 24 * time.Hour,
	},
	Data: DataConfig{
		Dir: "data",
	},
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0o755)
}

// TokenDBPath is the embedded database holding session tokens and operators.
func (c *AppConfig) TokenDBPath() string {
	return filepath.Join(c.System.Workdir, "data", "session.db")
}

func setEnvValue(name string, val *string) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToInt(evalue)
	}
}

// LoadConfig reads the yaml config file when present and applies
// STOREADMIN_* environment overrides on top.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("STOREADMIN_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("STOREADMIN_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("STOREADMIN_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("STOREADMIN_WEB_PORT", &cfg.Web.Port)
	setEnvValue("STOREADMIN_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("STOREADMIN_REMOTE_BASEURL", &cfg.Remote.BaseURL)
	setEnvValue("STOREADMIN_SESSION_MODE", &cfg.Session.Mode)
	setEnvValue("STOREADMIN_DATA_DIR", &cfg.Data.Dir)
	setEnvValue("STOREADMIN_LOGGER_FILENAME", &cfg.Logger.Filename)
	return cfg
}
