package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, "batsim/events", cfg.Topic)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Enabled: true}
	assert.Error(t, cfg.Validate())

	cfg.Broker = "tcp://localhost:1883"
	assert.NoError(t, cfg.Validate())

	disabled := Config{}
	assert.NoError(t, disabled.Validate())
}
