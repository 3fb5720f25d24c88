package events

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttQueueSize      = 256
	mqttConnectTimeout = 30 * time.Second
	mqttPublishTimeout = 10 * time.Second
)

// mqttPublisher is the part of mqtt.Client the sink needs
type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTSink forwards envelopes to an MQTT broker from a background
// goroutine. Envelopes are dropped when the queue is full.
type MQTTSink struct {
	client mqttPublisher
	prefix string

	queue chan Envelope
	stop  chan struct{}
	wg    sync.WaitGroup

	closeOnce  sync.Once
	disconnect func()
}

var _ Sink = (*MQTTSink)(nil)

// DialMQTT connects to broker and starts a sink publishing under prefix
func DialMQTT(broker, clientID, prefix string) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Printf("Connected to MQTT broker %s", broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("Connection to MQTT broker %s lost: %v", broker, err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}

	s := newMQTTSink(client, prefix)
	s.disconnect = func() { client.Disconnect(250) }
	return s, nil
}

func newMQTTSink(client mqttPublisher, prefix string) *MQTTSink {
	s := &MQTTSink{
		client: client,
		prefix: prefix,
		queue:  make(chan Envelope, mqttQueueSize),
		stop:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Topic returns the topic an event type is published on
func Topic(prefix string, t Type) string {
	if prefix == "" {
		return string(t)
	}
	return prefix + "/" + string(t)
}

// Send queues env for publishing
func (s *MQTTSink) Send(env Envelope) {
	select {
	case <-s.stop:
	case s.queue <- env:
	default:
		log.Printf("MQTT queue full, dropping %s event", env.Type)
	}
}

func (s *MQTTSink) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		case env := <-s.queue:
			if err := s.publish(env); err != nil {
				log.Printf("MQTT publish failed: %v", err)
			}
		}
	}
}

func (s *MQTTSink) publish(env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", env.Type, err)
	}
	topic := Topic(s.prefix, env.Type)
	token := s.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		return fmt.Errorf("publish to %s: timeout", topic)
	}
	return token.Error()
}

// Close stops the publishing goroutine and disconnects from the broker
func (s *MQTTSink) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
		if s.disconnect != nil {
			s.disconnect()
		}
	})
}
