package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tutorbook.yaml", `
db_path: /var/lib/tutorbook/file.db
log_level: warn
currency: VND
locale: vi
`)
	envFile := writeFile(t, dir, ".env", "TUTORBOOK_CURRENCY=USD\nTUTORBOOK_FILE_HANDLES=true\n")
	t.Setenv(EnvDB, filepath.Join(dir, "env.db"))

	cfg, err := Load(LoadOptions{Path: path, EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "env.db"), cfg.DBPath)
	assert.True(t, cfg.FileHandles)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, "vi", cfg.Locale)
}

func TestLoad_ProcessEnvBeatsDotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "TUTORBOOK_LOG_LEVEL=debug\n")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad log level", yaml: "log_level: loud\n", wantErr: "invalid config"},
		{name: "empty db path", yaml: "db_path: \"\"\n", wantErr: "invalid config"},
		{name: "bad locale", yaml: "locale: not a locale\n", wantErr: "invalid config"},
		{name: "malformed yaml", yaml: "db_path: [\n", wantErr: "parse config"},
		{name: "bad bool", env: map[string]string{EnvFileHandles: "maybe"}, wantErr: EnvFileHandles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "tutorbook.yaml", tt.yaml)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(LoadOptions{Path: path, EnvFile: filepath.Join(dir, "none.env")})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestConfig_Accessors(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Equal(t, language.English, cfg.Language())

	cfg.LogLevel = "debug"
	cfg.Locale = "vi"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, language.Vietnamese, cfg.Language())
}
