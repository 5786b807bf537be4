package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Data: DataConfig{
			BasePath: "/some/path",
		},
		Catalog: CatalogConfig{
			RequestsPerSecond: 5,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validTestConfig()

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"INFO", true},   // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validTestConfig()
	cfg.Data.BasePath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data base path cannot be empty")
}

func TestValidate_CatalogRate(t *testing.T) {
	cfg := validTestConfig()
	cfg.Catalog.RequestsPerSecond = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requests per second")
}

func TestExpandDataPath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{
		Data: DataConfig{
			BasePath: "",
		},
	}

	err := cfg.expandDataPath()
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	expected := filepath.Join(homeDir, "CorkBoard", "data")
	assert.Equal(t, expected, cfg.Data.BasePath)
}

func TestExpandDataPath_TildeExpansion(t *testing.T) {
	cfg := &Config{
		Data: DataConfig{
			BasePath: "~/my-data",
		},
	}

	err := cfg.expandDataPath()
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	expected := filepath.Join(homeDir, "my-data")
	assert.Equal(t, expected, cfg.Data.BasePath)
}

func TestExpandDataPath_AbsolutePath(t *testing.T) {
	cfg := &Config{
		Data: DataConfig{
			BasePath: "/absolute/path/to/data",
		},
	}

	err := cfg.expandDataPath()
	require.NoError(t, err)

	assert.Equal(t, "/absolute/path/to/data", cfg.Data.BasePath)
}

func TestExpandDataPath_RelativePath(t *testing.T) {
	cfg := &Config{
		Data: DataConfig{
			BasePath: "relative/path",
		},
	}

	err := cfg.expandDataPath()
	require.NoError(t, err)

	// Should be converted to absolute path.
	assert.True(t, filepath.IsAbs(cfg.Data.BasePath))
	assert.Contains(t, cfg.Data.BasePath, "relative/path")
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Test flag value takes priority.
	result := getConfigValue("flag-value", "ENV_KEY", "default-value")
	assert.Equal(t, "flag-value", result)

	// Test env var when flag is empty.
	os.Setenv("TEST_ENV_KEY", "env-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_ENV_KEY")      //nolint:errcheck // Test cleanup

	result = getConfigValue("", "TEST_ENV_KEY", "default-value")
	assert.Equal(t, "env-value", result)

	// Test default when both are empty.
	result = getConfigValue("", "NONEXISTENT_KEY", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	// Create temp .env file.
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `# Test env file
ENV=staging
LOG_LEVEL=debug
DATA_PATH=/test/path
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	// Clear any existing env vars.
	os.Unsetenv("ENV")           //nolint:errcheck // Test cleanup
	os.Unsetenv("LOG_LEVEL")     //nolint:errcheck // Test cleanup
	os.Unsetenv("DATA_PATH")     //nolint:errcheck // Test cleanup
	os.Unsetenv("QUOTED_VALUE")  //nolint:errcheck // Test cleanup
	os.Unsetenv("SINGLE_QUOTED") //nolint:errcheck // Test cleanup
	defer func() {
		os.Unsetenv("ENV")           //nolint:errcheck // Test cleanup
		os.Unsetenv("LOG_LEVEL")     //nolint:errcheck // Test cleanup
		os.Unsetenv("DATA_PATH")     //nolint:errcheck // Test cleanup
		os.Unsetenv("QUOTED_VALUE")  //nolint:errcheck // Test cleanup
		os.Unsetenv("SINGLE_QUOTED") //nolint:errcheck // Test cleanup
	}()

	// Load the file.
	err = loadEnvFile(envFile)
	require.NoError(t, err)

	// Verify values were loaded.
	assert.Equal(t, "staging", os.Getenv("ENV"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "/test/path", os.Getenv("DATA_PATH"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	// Create temp .env file with invalid format.
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
ANOTHER_VALID=value
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	// Should return error.
	err = loadEnvFile(envFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	err := loadEnvFile("/nonexistent/file/.env")
	assert.Error(t, err)
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	// Set env var first.
	os.Setenv("TEST_VAR", "original-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_VAR")           //nolint:errcheck // Test cleanup

	// Create temp .env file that tries to override it.
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `TEST_VAR=new-value`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	// Load the file.
	err = loadEnvFile(envFile)
	require.NoError(t, err)

	// Original value should be preserved.
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}

func TestLoadEnvFile_Whitespace(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `  KEY_WITH_SPACES  =  value with spaces  `
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	os.Unsetenv("KEY_WITH_SPACES")       //nolint:errcheck // Test cleanup
	defer os.Unsetenv("KEY_WITH_SPACES") //nolint:errcheck // Test cleanup

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	// Whitespace should be trimmed.
	assert.Equal(t, "value with spaces", os.Getenv("KEY_WITH_SPACES"))
}
