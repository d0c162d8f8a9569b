package stream

import (
	"context"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/ferro-gianluca-29/microgrid-simulator/infra/logger"
)

type mockToken struct{}

func (t *mockToken) Wait() bool                       { return true }
func (t *mockToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *mockToken) Error() error                     { return nil }
func (t *mockToken) Done() <-chan struct{}            { return make(chan struct{}) }

type mockClient struct {
	disconnected bool
	subTopic     string
	handler      paho.MessageHandler
}

func (m *mockClient) IsConnected() bool       { return true }
func (m *mockClient) Connect() paho.Token     { return &mockToken{} }
func (m *mockClient) Disconnect(quiesce uint) { m.disconnected = true }
func (m *mockClient) Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token {
	m.subTopic = topic
	m.handler = callback
	return &mockToken{}
}

type fakeMessage struct {
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 0 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return "microgrid/samples" }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func newTestConsumer(t *testing.T, bufferSize int) (*Consumer, *mockClient) {
	t.Helper()
	mc := &mockClient{}
	orig := newMQTTClient
	newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return mc }
	t.Cleanup(func() { newMQTTClient = orig })

	c, err := NewConsumer(Config{Broker: "tcp://localhost:1883", BufferSize: bufferSize}, logger.NopLogger{})
	if err != nil {
		t.Fatalf("consumer: %v", err)
	}
	return c, mc
}

func TestConsumerDecodesAndForwards(t *testing.T) {
	c, _ := newTestConsumer(t, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	payload := []byte(`{"timestamp":"2024-03-01T12:00:00Z","load_kw":10.5,"pv_kw":3.2}`)
	c.onSample(nil, &fakeMessage{payload: payload})

	select {
	case s := <-c.Out():
		if s.LoadKW != 10.5 || s.PVKW != 3.2 {
			t.Fatalf("unexpected sample %+v", s)
		}
		if s.Timestamp.Hour() != 12 {
			t.Fatalf("timestamp not parsed: %v", s.Timestamp)
		}
	case <-time.After(time.Second):
		t.Fatal("no sample forwarded")
	}
	if c.Total() != 1 {
		t.Fatalf("total %d, want 1", c.Total())
	}
}

func TestConsumerRollingBufferCaps(t *testing.T) {
	c, _ := newTestConsumer(t, 4)
	for i := 0; i < 10; i++ {
		payload := fmt.Appendf(nil, `{"timestamp":"2024-03-01T12:00:00Z","load_kw":%d,"pv_kw":0}`, i)
		c.onSample(nil, &fakeMessage{payload: payload})
	}
	buf := c.Samples()
	if len(buf) != 4 {
		t.Fatalf("buffer length %d, want 4", len(buf))
	}
	if buf[0].LoadKW != 6 || buf[3].LoadKW != 9 {
		t.Fatalf("buffer kept wrong window: %+v", buf)
	}
	if c.Total() != 10 {
		t.Fatalf("total %d, want 10", c.Total())
	}
}

func TestConsumerIgnoresMalformedPayload(t *testing.T) {
	c, _ := newTestConsumer(t, 4)
	c.onSample(nil, &fakeMessage{payload: []byte("not json")})
	if c.Total() != 0 {
		t.Fatalf("malformed payload counted")
	}
	if len(c.Samples()) != 0 {
		t.Fatalf("malformed payload buffered")
	}
}

func TestConsumerDisconnectsOnContextDone(t *testing.T) {
	c, mc := newTestConsumer(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
	deadline := time.Now().Add(time.Second)
	for !mc.disconnected {
		if time.Now().After(deadline) {
			t.Fatal("client not disconnected after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, ok := <-c.Out(); ok {
		t.Fatal("out channel not closed")
	}
}

func TestConsumerRequiresBroker(t *testing.T) {
	if _, err := NewConsumer(Config{}, logger.NopLogger{}); err == nil {
		t.Fatal("expected error for missing broker")
	}
}
