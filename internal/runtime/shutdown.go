// Package runtime provides graceful shutdown handling for the nyaya
// server process.
package runtime

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/arya/nyaya/internal/logging"
)

// ShutdownFunc is a cleanup function called during shutdown
type ShutdownFunc func(ctx context.Context) error

// ShutdownManager handles graceful shutdown of the application
type ShutdownManager struct {
	mu          sync.Mutex
	handlers    []namedHandler
	timeout     time.Duration
	shutdownCtx context.Context
	cancel      context.CancelFunc
	done        chan struct{}
	once        sync.Once
	log         *logging.Logger
}

type namedHandler struct {
	name string
	fn   ShutdownFunc
}

// DefaultShutdownTimeout is the default timeout for cleanup operations
const DefaultShutdownTimeout = 10 * time.Second

var (
	globalManager *ShutdownManager
	managerOnce   sync.Once
)

// Global returns the global shutdown manager
func Global() *ShutdownManager {
	managerOnce.Do(func() {
		globalManager = NewShutdownManager(DefaultShutdownTimeout)
	})
	return globalManager
}

// NewShutdownManager creates a new shutdown manager with specified timeout
func NewShutdownManager(timeout time.Duration) *ShutdownManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &ShutdownManager{
		handlers:    make([]namedHandler, 0),
		timeout:     timeout,
		shutdownCtx: ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		log:         logging.New("runtime"),
	}
}

// Register adds a cleanup handler to be called during shutdown.
// Handlers are called in reverse order, last registered first.
func (m *ShutdownManager) Register(name string, fn ShutdownFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, namedHandler{name: name, fn: fn})
}

// RegisterSimple adds a simple cleanup function (no error return)
func (m *ShutdownManager) RegisterSimple(name string, fn func()) {
	m.Register(name, func(ctx context.Context) error {
		fn()
		return nil
	})
}

// Context returns a context that is cancelled when shutdown begins
func (m *ShutdownManager) Context() context.Context {
	return m.shutdownCtx
}

// Done returns a channel that's closed when shutdown is complete
func (m *ShutdownManager) Done() <-chan struct{} {
	return m.done
}

// ListenForSignals starts listening for SIGTERM and SIGINT.
// This is non-blocking and should be called once at startup.
func (m *ShutdownManager) ListenForSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigChan
		m.log.Info("signal_received", map[string]any{"signal": sig.String()})
		m.Shutdown()
	}()
}

// Shutdown initiates graceful shutdown - can only be called once
func (m *ShutdownManager) Shutdown() {
	m.once.Do(func() {
		m.performShutdown()
	})
}

func (m *ShutdownManager) performShutdown() {
	defer close(m.done)

	// Cancel the main context to signal all operations to stop
	m.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.Lock()
	handlers := make([]namedHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	m.log.Info("shutdown_started", map[string]any{"handlers": len(handlers)})

	var wg sync.WaitGroup
	var errorMu sync.Mutex
	var failed []string

	for i := len(handlers) - 1; i >= 0; i-- {
		h := handlers[i]
		wg.Add(1)
		go func(handler namedHandler) {
			defer wg.Done()

			start := time.Now()
			err := handler.fn(ctx)
			duration := time.Since(start)

			if err != nil {
				m.log.Error("handler_failed", map[string]any{
					"handler":     handler.name,
					"duration_ms": duration.Milliseconds(),
				}, err)
				errorMu.Lock()
				failed = append(failed, fmt.Sprintf("%s: %v", handler.name, err))
				errorMu.Unlock()
				return
			}
			m.log.Debug("handler_done", map[string]any{
				"handler":     handler.name,
				"duration_ms": duration.Milliseconds(),
			})
		}(h)
	}

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		m.log.Info("shutdown_complete", map[string]any{"errors": len(failed)})
	case <-ctx.Done():
		m.log.Warn("shutdown_timeout", map[string]any{"timeout": m.timeout.String()}, nil)
	}
}

// WaitForShutdown blocks until shutdown is complete
func (m *ShutdownManager) WaitForShutdown() {
	<-m.done
}

// Convenience functions for global manager

// OnShutdown registers a cleanup handler with the global manager
func OnShutdown(name string, fn ShutdownFunc) {
	Global().Register(name, fn)
}

// ListenForSignals starts signal listening on the global manager
func ListenForSignals() {
	Global().ListenForSignals()
}

// ShutdownContext returns the global shutdown context
func ShutdownContext() context.Context {
	return Global().Context()
}
