// Package agent wires the router, the MQTT session, and the tray
// notifier into the single supervising goroutine structure cmd/agent
// starts and stops.
package agent

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"rc-agent/internal/actions"
	"rc-agent/internal/config"
	"rc-agent/internal/mqttsession"
	"rc-agent/internal/notify"
	"rc-agent/internal/router"
)

// Agent owns the process lifetime: one session goroutine running the
// MQTT state machine, which dispatches into the Router inline on every
// message (spec's "message handler runs to completion before the next
// message is pulled" invariant — no worker pool in front of dispatch).
type Agent struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	session  *mqttsession.Session
	notifier notifierCloser
	log      *logrus.Entry
}

type notifierCloser interface {
	notify.Notifier
	Close()
}

// noopCloser adapts notify.NoOp (which has nothing to close) to
// notifierCloser so Agent doesn't need a type switch at shutdown.
type noopCloser struct{ notify.NoOp }

func (noopCloser) Close() {}

// New builds an Agent from cfg. notifier may be nil, in which case a
// no-op notifier is used (headless / test wiring); production callers
// pass a *notify.TrayNotifier.
func New(cfg *config.Config, log *logrus.Entry, trayNotifier notifierCloser) *Agent {
	ctx, cancel := context.WithCancel(context.Background())

	n := trayNotifier
	if n == nil {
		n = noopCloser{}
	}

	executors := &actions.Executors{Log: log.WithField("component", "actions")}
	rtr := router.New(cfg, executors, log.WithField("component", "router"), actions.LivenessProbe, router.DefaultSpawner())

	client := mqttsession.NewClient(cfg)
	session := mqttsession.New(client, rtr, n, log.WithField("component", "mqtt"), cfg.BackoffMin, cfg.BackoffMax)

	return &Agent{
		ctx:      ctx,
		cancel:   cancel,
		session:  session,
		notifier: n,
		log:      log,
	}
}

// Run starts the session loop and blocks until it terminates (by
// context cancellation via Shutdown, or a fatal auth failure).
func (a *Agent) Run() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.session.Run(a.ctx)
		if reason := a.session.TerminalReason(); reason != nil && a.ctx.Err() == nil {
			a.log.WithError(reason).Error("mqtt session terminated")
		}
	}()
	a.wg.Wait()
}

// Shutdown sets the shared stop signal and waits for the session
// goroutine to exit.
func (a *Agent) Shutdown() {
	a.cancel()
	a.wg.Wait()
	a.notifier.Close()
}
