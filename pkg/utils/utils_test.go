package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	UserID   string  `json:"userId" validate:"required,max=5"`
	Tier     string  `json:"tier" validate:"required,oneof=VIP FrontRow GA"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	email := "ok@example.com"
	assert.Nil(t, ValidateStruct(sampleRequest{UserID: "u1", Tier: "GA", Quantity: 1, Email: &email}))

	bad := "nope"
	errs := ValidateStruct(sampleRequest{UserID: "toolong", Tier: "Pit", Quantity: -1, Email: &bad})
	require.Len(t, errs, 4)
	assert.Equal(t, "Maximum length is 5", errs["userId"])
	assert.Equal(t, "Must be one of: VIP, FrontRow, GA", errs["tier"])
	assert.Equal(t, "Must be greater than 0", errs["quantity"])
	assert.Equal(t, "Invalid email format", errs["email"])

	errs = ValidateStruct(sampleRequest{})
	assert.Equal(t, "This field is required", errs["userId"])
}

func TestFormatValidationErrors(t *testing.T) {
	got := FormatValidationErrors(map[string]string{"tier": "bad", "quantity": "worse"})
	assert.Equal(t, "quantity: worse; tier: bad", got)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 650-253-0000", "+16502530000"},
		{"(650) 253-0000", "+16502530000"},
		{"+44 20 7031 3000", "+442070313000"},
	}
	for _, tt := range tests {
		got, err := NormalizePhone(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "abc", "12"} {
		_, err := NormalizePhone(bad)
		assert.True(t, errors.Is(err, ErrInvalidPhone), bad)
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		price    string
		quantity int
		want     string
	}{
		{"10", 3, "30"},
		{"0.10", 3, "0.3"},
		{"12.345", 1, "12.35"},
		{"19.99", 7, "139.93"},
	}
	for _, tt := range tests {
		got := LineTotal(decimal.RequireFromString(tt.price), tt.quantity)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%s x %d = %s", tt.price, tt.quantity, got)
	}
}

func TestTrimOptional(t *testing.T) {
	assert.Nil(t, TrimOptional(nil))
	blank := "   "
	assert.Nil(t, TrimOptional(&blank))
	name := " Ada "
	require.NotNil(t, TrimOptional(&name))
	assert.Equal(t, "Ada", *TrimOptional(&name))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "ticket-booking", cfg.App.Name)
	assert.Equal(t, "3003", cfg.App.Port)
	assert.Equal(t, StorageMemory, cfg.App.StorageDriver)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Booking.HoldTTL)
	assert.Equal(t, 60*time.Second, cfg.Booking.SweepInterval)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, NotifyNone, cfg.Notify.Driver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Notify.KafkaBrokers)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=9000\nSTORAGE_DRIVER=postgres\nHOLD_TTL=2m\nKAFKA_BROKERS=a:9092, b:9092\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PORT", "9100")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.App.Port, "env wins over file")
	assert.Equal(t, StoragePostgres, cfg.App.StorageDriver)
	assert.Equal(t, 2*time.Minute, cfg.Booking.HoldTTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Notify.KafkaBrokers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	for key, value := range map[string]string{
		"STORAGE_DRIVER": "sqlite",
		"NOTIFY_DRIVER":  "smtp",
		"HOLD_TTL":       "0s",
		"SWEEP_INTERVAL": "-1s",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
