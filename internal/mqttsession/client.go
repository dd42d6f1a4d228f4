package mqttsession

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"rc-agent/internal/config"
)

// NewClient builds the paho wire client for cfg's broker connection.
// AutoReconnect and ConnectRetry are both disabled: Session's state
// machine owns reconnect timing and fatal-vs-transient classification,
// so the library must not race it with its own retry loop.
func NewClient(cfg *config.Config) mqtt.Client {
	scheme := "tcp"
	if cfg.TLS {
		scheme = "ssl"
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker, cfg.Port))
	opts.SetClientID(clientIDOrDefault(cfg.ClientID))
	opts.SetCleanSession(true)
	opts.SetKeepAlive(time.Duration(keepAliveOrDefault(cfg.KeepAlive)) * time.Second)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetOrderMatters(true)

	if cfg.AuthMode == "username_password" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	return mqtt.NewClient(opts)
}

func clientIDOrDefault(id string) string {
	if id == "" {
		return "RC-main"
	}
	return id
}

func keepAliveOrDefault(seconds int) int {
	if seconds <= 0 {
		return 60
	}
	return seconds
}
