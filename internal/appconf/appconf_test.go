package appconf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvFlagToEnvironment(t *testing.T) {
	tests := []struct {
		flag string
		want Environment
	}{
		{"test", Test},
		{"TEST", Test},
		{"production", Production},
		{"prod", Production},
		{"development", Development},
		{"", Development},
		{"staging", Development},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvFlagToEnvironment(tt.flag))
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 5*time.Second, cfg.PositionInterval)
	assert.Equal(t, 5*time.Second, cfg.BroadcastInterval)
	assert.Equal(t, 5*time.Minute, cfg.AdjustInterval)
	assert.Equal(t, "development", cfg.Env.String())
}
