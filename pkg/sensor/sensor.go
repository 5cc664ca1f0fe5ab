package sensor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/fsmkit/pkg/logger"
	"github.com/dmitrymomot/fsmkit/pkg/statemachine"
)

const DefaultBufferSize = 16

// Update is one reported state.
type Update struct {
	Machine string    `json:"machine"`
	State   string    `json:"state"`
	At      time.Time `json:"at"`
}

// Publisher forwards updates outside the process.
type Publisher interface {
	Publish(ctx context.Context, u Update) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, u Update) error

func (f PublisherFunc) Publish(ctx context.Context, u Update) error {
	return f(ctx, u)
}

// Option configures a Sensor.
type Option func(*Sensor)

func WithPublisher(p Publisher) Option {
	return func(s *Sensor) {
		if p != nil {
			s.publishers = append(s.publishers, p)
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Sensor) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithBufferSize sets the per-subscriber buffer. Minimum is 1.
func WithBufferSize(n int) Option {
	return func(s *Sensor) {
		s.bufferSize = n
	}
}

// WithClock overrides the time source used to stamp updates.
func WithClock(now func() time.Time) Option {
	return func(s *Sensor) {
		if now != nil {
			s.now = now
		}
	}
}

// Sensor reports the state of one machine.
type Sensor struct {
	machine    *statemachine.Machine
	publishers []Publisher
	logger     *slog.Logger
	bufferSize int
	now        func() time.Time

	feed   *feed
	handle statemachine.Handle

	mu    sync.RWMutex
	value string
}

func New(m *statemachine.Machine, opts ...Option) *Sensor {
	s := &Sensor{
		machine:    m,
		logger:     logger.NewNop(),
		bufferSize: DefaultBufferSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("sensor"), logger.Machine(m.Name()))
	s.feed = newFeed(s.bufferSize)
	return s
}

// Start attaches the sensor to the machine and reports the current state.
// It must not be called from inside a hook of the same machine.
func (s *Sensor) Start(ctx context.Context) error {
	if !s.handle.IsZero() {
		return ErrAlreadyStarted
	}

	h, err := s.machine.OnStateChange(statemachine.HookFunc(func(ctx context.Context, ev statemachine.Event) error {
		s.report(ctx, ev.State)
		return nil
	}))
	if err != nil {
		return err
	}
	s.handle = h

	s.report(ctx, s.machine.Current())
	return nil
}

// Stop detaches the sensor and closes all subscriptions.
func (s *Sensor) Stop() {
	if !s.handle.IsZero() {
		s.machine.RemoveHook(s.handle)
		s.handle = statemachine.Handle{}
	}
	s.feed.close()
}

// State returns the last reported state, or "" before Start.
func (s *Sensor) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Subscribe returns a subscription that receives every later update.
// It is closed when ctx is done or the sensor stops.
func (s *Sensor) Subscribe(ctx context.Context) Subscription {
	return s.feed.subscribe(ctx)
}

// report never fails the hook: publish errors are logged.
func (s *Sensor) report(ctx context.Context, state string) {
	s.mu.Lock()
	s.value = state
	s.mu.Unlock()

	u := Update{Machine: s.machine.Name(), State: state, At: s.now()}
	s.feed.send(u)

	for _, p := range s.publishers {
		if err := p.Publish(ctx, u); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish state", logger.State(state), logger.Error(err))
		}
	}
}
