package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "cotahub", cfg.Database.DBName)
	assert.True(t, cfg.Platform.FeePercent.Equal(decimal.NewFromInt(5)))
	assert.True(t, cfg.Platform.MinWithdrawal.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 30, cfg.Platform.ClearingDays)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TAXA_PLATAFORMA_PERCENTUAL", "7.5")
	t.Setenv("SAQUE_MINIMO", "25.00")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")

	cfg := Load()

	assert.True(t, cfg.Platform.FeePercent.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, cfg.Platform.MinWithdrawal.Equal(decimal.RequireFromString("25")))
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TAXA_PLATAFORMA_PERCENTUAL", "abc")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	cfg := Load()

	assert.True(t, cfg.Platform.FeePercent.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
}

func TestDatabaseURL(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "cotahub", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/cotahub?sslmode=disable", c.URL())
}
