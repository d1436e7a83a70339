// Package bootstrap decides the initial route once the device stores have
// settled. It is a two-state machine: Bootstrapping until a route is chosen,
// then Resolved for the rest of the process.
package bootstrap

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/logging"
)

type State int

const (
	StateBootstrapping State = iota
	StateResolved
)

func (s State) String() string {
	if s == StateResolved {
		return "resolved"
	}
	return "bootstrapping"
}

type Route string

const (
	RouteOnboarding Route = "/onboarding"
	RouteMainApp    Route = "/(tabs)"
)

// DefaultDelay lets asynchronous store hydration finish before routing.
const DefaultDelay = 100 * time.Millisecond

type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }

// ProfileState is the part of the profile store routing depends on.
type ProfileState interface {
	HasCompletedOnboarding() bool
}

// FlowState exposes the ephemeral app flags.
type FlowState interface {
	InCriticalFlow() bool
	SetBootstrappedNavigation(bool)
}

type Controller struct {
	profile ProfileState
	flow    FlowState
	nav     Navigator
	delay   time.Duration
	after   func(time.Duration) <-chan time.Time
	log     *slog.Logger

	mu    sync.Mutex
	state State
	route Route
}

type Option func(*Controller)

func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithTimer replaces time.After, for tests.
func WithTimer(after func(time.Duration) <-chan time.Time) Option {
	return func(c *Controller) { c.after = after }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func NewController(profile ProfileState, flow FlowState, nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		profile: profile,
		flow:    flow,
		nav:     nav,
		delay:   DefaultDelay,
		after:   time.After,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logging.OrDefault(c.log)
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Route is the chosen route, empty while bootstrapping.
func (c *Controller) Route() Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route
}

// Evaluate runs one check-delay-recheck pass. It navigates at most once per
// controller: a critical flow at either check leaves the controller in
// Bootstrapping so a later Evaluate can resolve it. Watch drives those
// later passes from critical-flow exits. A cancelled ctx aborts
// the wait without navigating and returns ctx.Err().
func (c *Controller) Evaluate(ctx context.Context) (Route, error) {
	if c.State() == StateResolved {
		return "", nil
	}
	if c.flow.InCriticalFlow() {
		c.log.Debug("bootstrap navigation suppressed", "reason", "critical flow")
		return "", nil
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.after(c.delay):
	}

	if c.flow.InCriticalFlow() {
		c.log.Debug("bootstrap navigation suppressed after delay", "reason", "critical flow")
		return "", nil
	}

	c.mu.Lock()
	if c.state == StateResolved {
		c.mu.Unlock()
		return "", nil
	}
	route := RouteOnboarding
	if c.profile.HasCompletedOnboarding() {
		route = RouteMainApp
	}
	c.state = StateResolved
	c.route = route
	c.mu.Unlock()

	c.flow.SetBootstrappedNavigation(true)
	c.nav.Navigate(route)
	c.log.Info("bootstrap navigation resolved", "route", route)
	return route, nil
}

// FlowWatcher reports changes of the critical-flow flag.
type FlowWatcher interface {
	SubscribeCriticalFlow(fn func(inCriticalFlow bool)) func()
}

// Watch evaluates now and again every time the critical flow is left,
// until the controller resolves or ctx is done.
func (c *Controller) Watch(ctx context.Context, w FlowWatcher) (Route, error) {
	exited := make(chan struct{}, 1)
	unsubscribe := w.SubscribeCriticalFlow(func(in bool) {
		if in {
			return
		}
		select {
		case exited <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		route, err := c.Evaluate(ctx)
		if err != nil || c.State() == StateResolved {
			return route, err
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-exited:
		}
	}
}
