package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/arup-group/batsim/core/sim"
	"github.com/arup-group/batsim/infra/logger"
)

// Config defines the connection parameters for the event publisher.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "batsim/events"
	}
}

// Validate checks mandatory fields when publishing is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required when publishing is enabled")
	}
	return nil
}

// Publisher pushes charge events and run summaries to an MQTT broker for
// downstream consumers.
type Publisher struct {
	cli   paho.Client
	topic string
	qos   byte
	log   logger.Logger
}

// NewPublisher connects to the broker and returns a ready publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "batsim-" + uuid.NewString()[:8]
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Publisher{cli: cli, topic: cfg.Topic, qos: cfg.QoS, log: logger.New("mqtt-publisher")}, nil
}

type eventMessage struct {
	RunID string    `json:"run_id"`
	Event sim.Event `json:"event"`
}

// PublishEvents sends every charge event to <topic>/<agent id>.
func (p *Publisher) PublishEvents(runID string, events []sim.Event) error {
	for _, ev := range events {
		payload, err := json.Marshal(eventMessage{RunID: runID, Event: ev})
		if err != nil {
			return err
		}
		topic := fmt.Sprintf("%s/%s", p.topic, ev.AgentID)
		if token := p.cli.Publish(topic, p.qos, false, payload); token.Wait() && token.Error() != nil {
			return fmt.Errorf("publish event: %w", token.Error())
		}
	}
	return nil
}

// PublishSummary sends the run summary to <topic>/summary.
func (p *Publisher) PublishSummary(runID string, summary any) error {
	payload, err := json.Marshal(map[string]any{"run_id": runID, "summary": summary})
	if err != nil {
		return err
	}
	topic := p.topic + "/summary"
	if token := p.cli.Publish(topic, p.qos, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish summary: %w", token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.cli.Disconnect(250)
}
