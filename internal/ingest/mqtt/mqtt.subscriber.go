// FilePath: internal/ingest/mqtt/mqtt.subscriber.go
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/config"
	"github.com/homegraph/hub/internal/models"
)

// Submitter is the ingestion entry point messages are fed into.
type Submitter interface {
	SubmitBatch(ctx context.Context, req models.BatchRequest) ([]models.Reading, error)
}

// Payload is the body of one device message.
type Payload struct {
	Values []models.ReadingInput `json:"values"`
}

// Subscriber turns each device message into one batch write.
type Subscriber struct {
	cfg       config.MQTTConfig
	submitter Submitter
	timeout   time.Duration
	client    paho.Client
}

func NewSubscriber(cfg config.MQTTConfig, submitter Submitter, timeout time.Duration) *Subscriber {
	return &Subscriber{cfg: cfg, submitter: submitter, timeout: timeout}
}

// Start connects to the broker. The subscription is renewed on every
// reconnect.
func (s *Subscriber) Start() error {
	opts := paho.NewClientOptions()
	opts.AddBroker(s.cfg.Broker)
	opts.SetClientID(s.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(c paho.Client) {
		token := c.Subscribe(s.cfg.Topic, byte(s.cfg.QoS), s.HandleMessage)
		if token.Wait() && token.Error() != nil {
			nuts.L.Errorf("[MQTTIngest] Subscribe to %s failed: %v", s.cfg.Topic, token.Error())
			return
		}
		nuts.L.Infof("[MQTTIngest] Subscribed to %s", s.cfg.Topic)
	})
	opts.SetConnectionLostHandler(func(c paho.Client, err error) {
		nuts.L.Warnf("[MQTTIngest] Connection lost: %v", err)
	})

	s.client = paho.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect %s: %w", s.cfg.Broker, token.Error())
	}
	return nil
}

func (s *Subscriber) Stop() {
	if s.client == nil {
		return
	}
	s.client.Unsubscribe(s.cfg.Topic).WaitTimeout(time.Second)
	s.client.Disconnect(250)
	nuts.L.Infof("[MQTTIngest] Disconnected")
}

// HandleMessage drops messages with a bad topic or payload after logging them.
func (s *Subscriber) HandleMessage(_ paho.Client, msg paho.Message) {
	deviceID, err := DeviceIDFromTopic(s.cfg.Topic, msg.Topic())
	if err != nil {
		nuts.L.Warnf("[MQTTIngest] Dropping message: %v", err)
		return
	}

	var payload Payload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		nuts.L.Warnf("[MQTTIngest] Dropping message on %s: invalid payload: %v", msg.Topic(), err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	rows, err := s.submitter.SubmitBatch(ctx, models.BatchRequest{DeviceID: &deviceID, Values: payload.Values})
	if err != nil {
		nuts.L.Warnf("[MQTTIngest] Batch from device %d rejected: %v", deviceID, err)
		return
	}
	nuts.L.Debugf("[MQTTIngest] Stored %d reading(s) from device %d", len(rows), deviceID)
}

// DeviceIDFromTopic reads the device id from the segment of topic that
// matches the single-level wildcard in pattern.
func DeviceIDFromTopic(pattern, topic string) (int64, error) {
	want := strings.Split(pattern, "/")
	got := strings.Split(topic, "/")
	if len(want) != len(got) {
		return 0, fmt.Errorf("topic %q does not match %q", topic, pattern)
	}

	idx := -1
	for i, seg := range want {
		switch seg {
		case "+":
			if idx == -1 {
				idx = i
			}
		default:
			if seg != got[i] {
				return 0, fmt.Errorf("topic %q does not match %q", topic, pattern)
			}
		}
	}
	if idx == -1 {
		return 0, fmt.Errorf("pattern %q has no device wildcard", pattern)
	}

	id, err := strconv.ParseInt(got[idx], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("topic %q has invalid device id %q", topic, got[idx])
	}
	return id, nil
}
