package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appContable/statement-core/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "statement-core.db", cfg.Store.Path)
	assert.Equal(t, config.IDFormatCanonical, cfg.RuleIDFormat())
	assert.Zero(t, cfg.Quota.MonthlyLimit)
	assert.Equal(t, 0.5, cfg.Parser.MaxSkipRatio)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, "bank-rules.yaml", cfg.Seed.RulesFile)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STMT_LOG_LEVEL", "debug")
	t.Setenv("STMT_QUOTA_MONTHLY_LIMIT", "5")
	t.Setenv("STMT_STORE_ID_FORMAT", "compact")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Quota.MonthlyLimit)
	assert.Equal(t, config.IDFormatCompact, cfg.RuleIDFormat())
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("STMT_LOG_LEVEL", "chatty")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("STMT_LOG_FORMAT", "xml")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidIDFormat(t *testing.T) {
	t.Setenv("STMT_STORE_ID_FORMAT", "hex")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_NegativeQuota(t *testing.T) {
	t.Setenv("STMT_QUOTA_MONTHLY_LIMIT", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_SkipRatioOutOfRange(t *testing.T) {
	t.Setenv("STMT_PARSER_MAX_SKIP_RATIO", "1.5")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestRuleIDFormat_UnknownFallsBackToCanonical(t *testing.T) {
	var cfg config.Config
	cfg.Store.IDFormat = "weird"
	assert.Equal(t, config.IDFormatCanonical, cfg.RuleIDFormat())
}
