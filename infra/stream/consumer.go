// Package stream delivers load/PV samples to the simulation loop, either
// live from an MQTT topic or replayed from a CSV file.
package stream

import (
	"context"
	"encoding/json"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
	"github.com/ferro-gianluca-29/microgrid-simulator/infra/logger"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Consumer subscribes to the samples topic and keeps a rolling buffer of
// the most recent measurements while forwarding each one to Out.
type Consumer struct {
	cfg Config
	cli pahoClient
	log logger.Logger
	out chan model.Sample

	mu     sync.Mutex
	buffer []model.Sample
	total  int
}

// NewConsumer creates a consumer; Start must be called before samples flow.
func NewConsumer(cfg Config, log logger.Logger) (*Consumer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New("stream-consumer")
	}
	return &Consumer{
		cfg: cfg,
		log: log,
		out: make(chan model.Sample, cfg.BufferSize),
	}, nil
}

// Start connects to the broker and subscribes. The subscription is restored
// on reconnect; the output channel closes when the context is done.
func (c *Consumer) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().AddBroker(c.cfg.Broker).SetClientID(c.cfg.ClientID)
	opts.AutoReconnect = true
	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
	}
	if c.cfg.Password != "" {
		opts.SetPassword(c.cfg.Password)
	}
	opts.OnConnect = func(cli paho.Client) {
		c.log.Infof("MQTT connected, subscribing to %s", c.cfg.Topic)
		if token := cli.Subscribe(c.cfg.Topic, c.cfg.QoS, c.onSample); token.Wait() && token.Error() != nil {
			c.log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		c.log.Errorf("connection lost: %v", err)
	}

	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	c.cli = cli

	go func() {
		<-ctx.Done()
		cli.Disconnect(250)
		close(c.out)
	}()
	return nil
}

// Out returns the channel of decoded samples in arrival order.
func (c *Consumer) Out() <-chan model.Sample { return c.out }

// Samples returns a snapshot of the rolling buffer, oldest first.
func (c *Consumer) Samples() []model.Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := make([]model.Sample, len(c.buffer))
	copy(snap, c.buffer)
	return snap
}

// Total returns the number of samples received since Start.
func (c *Consumer) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Consumer) onSample(_ paho.Client, msg paho.Message) {
	var s model.Sample
	if err := json.Unmarshal(msg.Payload(), &s); err != nil {
		c.log.Errorf("decode sample: %v", err)
		return
	}
	c.mu.Lock()
	c.buffer = append(c.buffer, s)
	if len(c.buffer) > c.cfg.BufferSize {
		c.buffer = c.buffer[len(c.buffer)-c.cfg.BufferSize:]
	}
	c.total++
	c.mu.Unlock()

	select {
	case c.out <- s:
	default:
		c.log.Warnf("sample queue full, dropping sample at %s", s.Timestamp)
	}
}
