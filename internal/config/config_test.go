package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func configDir(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(configDir(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	if cfg.DB.Host == "" {
		t.Error("DB.Host should not be empty")
	}

	if cfg.JWT.ExpiryTime != 24*time.Hour {
		t.Errorf("JWT.ExpiryTime = %v, want %v", cfg.JWT.ExpiryTime, 24*time.Hour)
	}

	if cfg.Seed.AdminEmail == "" {
		t.Error("Seed.AdminEmail should not be empty")
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	if err == nil {
		t.Fatal("ReadConfig() expected error for missing main.toml")
	}
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{
				Port: 8080,
				URL:  "http://localhost:8080",
			},
			JWT: JWT{Secret: "secret"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(_ *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Webserver.Port = 0 },
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.Webserver.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWT.Secret = "" },
			wantErr: ErrEmptyJWTSecret,
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.DB.GormEngine = "oracle" },
			wantErr: ErrUnknownGormEngine,
		},
		{
			name:   "sqlite engine",
			mutate: func(c *Config) { c.DB.GormEngine = EngineSQLite },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := validate(&c)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("validate() unexpected error = %v", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	c := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		JWT:       JWT{Secret: "secret"},
	}

	if err := validate(&c); err != nil {
		t.Fatalf("validate() error = %v", err)
	}

	if c.DB.GormEngine != EngineMySQL {
		t.Errorf("DB.GormEngine = %q, want %q", c.DB.GormEngine, EngineMySQL)
	}

	if c.Webserver.ShutDownTime != 5 {
		t.Errorf("Webserver.ShutDownTime = %d, want 5", c.Webserver.ShutDownTime)
	}

	if c.JWT.ExpiryTime != DefaultTokenExpiry {
		t.Errorf("JWT.ExpiryTime = %v, want %v", c.JWT.ExpiryTime, DefaultTokenExpiry)
	}
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	jsonOverride := `{"Title":"Test Override","Webserver":{"Port":9090},"JWT":{"Secret":"from-env"}}`
	t.Setenv(EnvConfigJSON, jsonOverride)

	cfg, err := ReadConfig(configDir(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Test Override" {
		t.Errorf("Title = %v, want %v", cfg.Title, "Test Override")
	}

	if cfg.Webserver.Port != 9090 {
		t.Errorf("Webserver.Port = %v, want %v", cfg.Webserver.Port, 9090)
	}

	if cfg.JWT.Secret != "from-env" {
		t.Errorf("JWT.Secret = %v, want %v", cfg.JWT.Secret, "from-env")
	}

	// values absent from the override keep their toml value
	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should survive the override")
	}
}

func TestReadConfigWithBrokenJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":`)

	if _, err := ReadConfig(configDir(t)); err == nil {
		t.Fatal("ReadConfig() expected error for broken json override")
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	tomlStr, err := DumpConfig(&cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if !strings.Contains(tomlStr, "Test") {
		t.Error("DumpConfig() output should contain Title")
	}
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	jsonStr, err := DumpConfigJSON(&cfg)
	if err != nil {
		t.Fatalf("DumpConfigJSON() error = %v", err)
	}

	if !strings.Contains(jsonStr, `"Title": "Test"`) {
		t.Error("DumpConfigJSON() output should contain Title")
	}
}
