package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	envVars := []string{
		"QDRANT_VECTOR_SIZE", "LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL",
		"EMBEDDING_BASE_URL", "EMBEDDING_MODEL_NAME", "DB_PATH", "CATALOG_PATH",
		"QDRANT_URL", "QDRANT_COLLECTION", "TOP_K", "API_PORT",
		"LOG_LEVEL", "LOG_FORMAT",
	}
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "valid config with required fields",
			setupEnv: func(t *testing.T) {
				setEnv("QDRANT_VECTOR_SIZE", "3072")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.QdrantVectorSize == 3072 &&
					cfg.QdrantCollection == "titles" &&
					cfg.TopK == 3 &&
					cfg.LogLevel == slog.LevelInfo
			},
		},
		{
			name:     "missing QDRANT_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {},
			wantErr:  true,
		},
		{
			name: "non-numeric QDRANT_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("QDRANT_VECTOR_SIZE", "large")
			},
			wantErr: true,
		},
		{
			name: "zero QDRANT_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("QDRANT_VECTOR_SIZE", "0")
			},
			wantErr: true,
		},
		{
			name: "invalid TOP_K",
			setupEnv: func(t *testing.T) {
				setEnv("QDRANT_VECTOR_SIZE", "3072")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("TOP_K", "-1")
			},
			wantErr: true,
		},
		{
			name: "custom TOP_K and log level",
			setupEnv: func(t *testing.T) {
				setEnv("QDRANT_VECTOR_SIZE", "3072")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("TOP_K", "5")
				setEnv("LOG_LEVEL", "debug")
				setEnv("LOG_FORMAT", "json")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.TopK == 5 &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json"
			},
		},
		{
			name: "invalid LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				setEnv("QDRANT_VECTOR_SIZE", "3072")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
				setEnv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envVars {
				unsetEnv(key)
			}
			tt.setupEnv(t)

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() returned unexpected config: %+v", cfg)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogLevel(%q) error = %v, wantErr = %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
