package contact

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// SuccessMessage is shown after a delivered submission.
const SuccessMessage = "Thanks for your submission!"

// ErrInFlight is returned when the same client already has a submission being delivered.
var ErrInFlight = errors.New("contact submission already in flight")

// Gate allows at most one in-flight submission per client key.
type Gate struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewGate returns an empty gate.
func NewGate() *Gate {
	return &Gate{inFlight: make(map[string]struct{})}
}

// Acquire claims key. The returned release func must be called once delivery settles.
func (g *Gate) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return nil, ErrInFlight
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, nil
}

// InFlight reports how many submissions are being delivered.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inFlight)
}

// Service runs a submission through validation, the gate and delivery.
type Service struct {
	delivery Delivery
	gate     *Gate
	logger   *slog.Logger
}

// NewService wires a Service. A nil logger uses slog.Default().
func NewService(delivery Delivery, gate *Gate, logger *slog.Logger) *Service {
	if gate == nil {
		gate = NewGate()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{delivery: delivery, gate: gate, logger: logger}
}

// Submit validates f and delivers it on behalf of clientKey. It returns the message to
// show the user on success.
func (s *Service) Submit(ctx context.Context, clientKey string, f Form) (string, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return "", err
	}

	release, err := s.gate.Acquire(clientKey)
	if err != nil {
		s.logger.Warn("Contact submission rejected, another is in flight", "client", clientKey)
		return "", err
	}
	defer release()

	start := time.Now()
	if err := s.delivery.Deliver(ctx, f); err != nil {
		s.logger.Info("Contact delivery failed",
			"client", clientKey,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return "", err
	}

	s.logger.Info("Contact submission delivered",
		"client", clientKey,
		"duration_ms", time.Since(start).Milliseconds())
	return SuccessMessage, nil
}
