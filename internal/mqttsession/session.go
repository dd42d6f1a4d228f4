// Package mqttsession implements the agent's MQTT session loop: connect,
// subscribe, receive, and reconnect-with-backoff, modeled as an explicit
// state machine over a paho.mqtt.golang client.
package mqttsession

import (
	"context"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// maxPayloadBytes truncates oversize inbound payloads before they reach
// the router.
const maxPayloadBytes = 4096

// Router is the subset of *router.Router the session depends on. Kept as
// a local interface so tests can substitute a recording fake.
type Router interface {
	Topics() []string
	Dispatch(topic, payload string)
}

// Notifier surfaces session status to the tray.
type Notifier interface {
	Notify(title, body string)
	SetStatus(text string)
}

type inboundMessage struct {
	topic   string
	payload string
}

// Session runs the state machine described by state.go against a single
// paho client.
type Session struct {
	client   mqtt.Client
	router   Router
	notifier Notifier
	log      *logrus.Entry

	backoffMin time.Duration
	backoffMax time.Duration

	inbox chan inboundMessage

	lastNotifyAt map[string]time.Time

	terminalReason error
}

// New builds a Session. backoffMin/backoffMax are seconds, matching the
// config fields they're read from.
func New(client mqtt.Client, router Router, notifier Notifier, log *logrus.Entry, backoffMinSeconds, backoffMaxSeconds int) *Session {
	return &Session{
		client:       client,
		router:       router,
		notifier:     notifier,
		log:          log,
		backoffMin:   time.Duration(backoffMinSeconds) * time.Second,
		backoffMax:   time.Duration(backoffMaxSeconds) * time.Second,
		inbox:        make(chan inboundMessage, 64),
		lastNotifyAt: map[string]time.Time{},
	}
}

// TerminalReason returns the reason Run stopped, once it has. Only
// meaningful after Run returns.
func (s *Session) TerminalReason() error { return s.terminalReason }

// Run drives the state machine until ctx is cancelled or a fatal auth
// failure is reached. It does not return until the session is done.
func (s *Session) Run(ctx context.Context) {
	var cur state = stateInit{}
	backoff := s.backoffMin

	for {
		switch st := cur.(type) {
		case stateInit:
			cur = s.runInit(ctx, &backoff)
		case stateSubscribing:
			cur = s.runSubscribing()
		case stateReceiving:
			cur = s.runReceiving(ctx)
		case stateBackoff:
			cur = s.runBackoff(ctx, st, &backoff)
		case stateTerminal:
			s.terminalReason = st.reason
			return
		}
	}
}

func (s *Session) runInit(ctx context.Context, backoff *time.Duration) state {
	select {
	case <-ctx.Done():
		return stateTerminal{reason: ctx.Err()}
	default:
	}

	s.notifyThrottled("Connecting", "connecting to broker")

	token := s.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		if isFatalAuth(err) {
			s.log.WithError(err).Error("mqtt: fatal auth failure")
			s.notifier.Notify("Auth failed", err.Error())
			return stateTerminal{reason: err}
		}
		s.log.WithError(err).Warn("mqtt: connect failed, backing off")
		s.notifyThrottled("Disconnected", err.Error())
		return stateBackoff{delay: *backoff}
	}

	*backoff = s.backoffMin
	return stateSubscribing{}
}

func (s *Session) runSubscribing() state {
	seen := map[string]bool{}
	for _, topic := range s.router.Topics() {
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true
		token := s.client.Subscribe(topic, 0, s.handleMessage)
		token.Wait()
		if err := token.Error(); err != nil {
			s.log.WithError(err).WithField("topic", topic).Warn("mqtt: subscribe failed")
			return stateBackoff{delay: s.backoffMin}
		}
	}
	s.notifier.SetStatus("Connected")
	return stateReceiving{}
}

func (s *Session) runReceiving(ctx context.Context) state {
	select {
	case <-ctx.Done():
		s.client.Disconnect(250)
		return stateTerminal{reason: ctx.Err()}
	case msg := <-s.inbox:
		s.router.Dispatch(msg.topic, msg.payload)
		return stateReceiving{}
	case <-time.After(time.Second):
		if !s.client.IsConnected() {
			s.notifyThrottled("Disconnected", "connection lost")
			return stateInit{}
		}
		return stateReceiving{}
	}
}

func (s *Session) runBackoff(ctx context.Context, st stateBackoff, backoff *time.Duration) state {
	select {
	case <-ctx.Done():
		return stateTerminal{reason: ctx.Err()}
	case <-time.After(st.delay):
		*backoff = nextBackoff(*backoff, s.backoffMax)
		return stateInit{}
	}
}

// handleMessage is the paho MessageHandler registered on every
// subscription. It truncates oversize payloads and hands the message to
// the receive loop via inbox; it never calls the router directly so
// dispatch stays serialized on the session goroutine.
func (s *Session) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()
	if len(payload) > maxPayloadBytes {
		payload = payload[:maxPayloadBytes]
	}
	s.inbox <- inboundMessage{topic: msg.Topic(), payload: string(payload)}
}

// notifyThrottled surfaces a status at most once per 30s, per status
// text, matching the "Connecting/Disconnected/Failed" throttle.
func (s *Session) notifyThrottled(status, detail string) {
	now := time.Now()
	if last, ok := s.lastNotifyAt[status]; ok && now.Sub(last) < 30*time.Second {
		return
	}
	s.lastNotifyAt[status] = now
	s.notifier.SetStatus(status)
	s.log.WithField("detail", detail).Info(status)
}

// isFatalAuth reports whether err corresponds to a CONNACK return code
// the broker would repeat on every retry: bad credentials or
// not-authorized (codes 4 and 5).
func isFatalAuth(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not authorized") ||
		strings.Contains(msg, "bad user name or password") ||
		strings.Contains(msg, "bad username or password")
}
