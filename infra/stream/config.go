package stream

import (
	"fmt"

	"github.com/google/uuid"
)

// Config defines the connection parameters for the MQTT sample consumer.
type Config struct {
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	BufferSize int    `json:"buffer_size"`
}

// SetDefaults applies sane defaults. A random client-id suffix avoids
// broker-side session collisions between concurrent runs.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "microgrid-sim-" + uuid.NewString()[:8]
	}
	if c.Topic == "" {
		c.Topic = "microgrid/samples"
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 96
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("stream broker is required")
	}
	if c.QoS > 2 {
		return fmt.Errorf("stream qos %d out of range", c.QoS)
	}
	return nil
}
