// Package dispatch turns a user action into exactly one request to the chat
// endpoint and exactly one assistant message in the conversation.
package dispatch

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecrypto/chatclient/internal/api"
	"github.com/ecrypto/chatclient/internal/conversation"
	apierrors "github.com/ecrypto/chatclient/internal/errors"
	"github.com/ecrypto/chatclient/internal/models"
)

// Config selects where messages are posted and what is shown when that fails
type Config struct {
	// EndpointURL receives free-text messages
	EndpointURL string
	// OptionEndpointURL receives preset options; EndpointURL is used when empty
	OptionEndpointURL string
	// ErrorMessage replaces the assistant's turn when a request fails
	ErrorMessage string
}

// DefaultErrorMessage is used when Config.ErrorMessage is empty
const DefaultErrorMessage = "⚠️ Error al conectar con la IA"

func (c Config) optionEndpoint() string {
	if c.OptionEndpointURL != "" {
		return c.OptionEndpointURL
	}
	return c.EndpointURL
}

func (c Config) errorMessage() string {
	if c.ErrorMessage != "" {
		return c.ErrorMessage
	}
	return DefaultErrorMessage
}

// Dispatcher sends messages for one chat session.
// At most one request is in flight at a time; a second Send while one is
// pending is rejected with ErrBusy and leaves the conversation untouched.
type Dispatcher struct {
	store  *conversation.Store
	client api.ChatClientInterface
	cfg    Config
	logger zerolog.Logger

	// session lifetime; cancelled by Close
	ctx    context.Context
	cancel context.CancelFunc

	busy   atomic.Bool
	closed atomic.Bool

	// claimed is the in-flight slot; it rises before busy and falls with it
	mu       sync.Mutex
	claimed  bool
	watchers []func(bool)

	errMu   sync.Mutex
	lastErr error
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates a Dispatcher bound to the lifetime of ctx.
// Cancelling ctx has the same effect as Close.
func New(ctx context.Context, store *conversation.Store, client api.ChatClientInterface, cfg Config, opts ...Option) *Dispatcher {
	sessionCtx, cancel := context.WithCancel(ctx)
	d := &Dispatcher{
		store:  store,
		client: client,
		cfg:    cfg,
		logger: zerolog.Nop(),
		ctx:    sessionCtx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the conversation this dispatcher appends to
func (d *Dispatcher) Store() *conversation.Store {
	return d.store
}

// Send posts free text to the main endpoint.
// Text that is empty after trimming is rejected with ErrEmptyMessage.
func (d *Dispatcher) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return apierrors.ErrEmptyMessage
	}
	return d.dispatch(ctx, d.cfg.EndpointURL, text)
}

// SendOption posts a preset option to the option endpoint
func (d *Dispatcher) SendOption(ctx context.Context, option string) error {
	if strings.TrimSpace(option) == "" {
		return apierrors.ErrEmptyMessage
	}
	return d.dispatch(ctx, d.cfg.optionEndpoint(), option)
}

// Busy reports whether a request is in flight
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}

// OnBusyChange registers fn to be called whenever the busy flag flips
func (d *Dispatcher) OnBusyChange(fn func(bool)) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.watchers = append(d.watchers, fn)
}

// LastError returns the error of the most recent request, nil if it succeeded
func (d *Dispatcher) LastError() error {
	d.errMu.Lock()
	defer d.errMu.Unlock()
	return d.lastErr
}

// Close ends the session. A pending request is cancelled and its completion
// is discarded; later calls to Send return ErrSessionClosed.
func (d *Dispatcher) Close() {
	d.closed.Store(true)
	d.cancel()
	// waits out a reply append that already passed its closed check
	d.store.Len()
}

// Closed reports whether the session has ended
func (d *Dispatcher) Closed() bool {
	return d.closed.Load() || d.ctx.Err() != nil
}

func (d *Dispatcher) dispatch(ctx context.Context, endpointURL, text string) error {
	if err := d.claim(); err != nil {
		return err
	}
	defer d.release()

	d.store.Append(models.UserMessage(text))
	d.raise()

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(d.ctx, cancel)
	defer stop()

	start := time.Now()
	d.logger.Debug().
		Str("endpoint", endpointURL).
		Int("message_len", len(text)).
		Msg("posting message")

	response, err := d.client.Post(reqCtx, endpointURL, text)
	d.setLastError(err)

	reply := models.AIMessage(response)
	if err != nil {
		d.logger.Debug().
			Err(err).
			Str("endpoint", endpointURL).
			Dur("elapsed", time.Since(start)).
			Msg("request failed")
		reply = models.AIMessage(d.cfg.errorMessage())
	} else {
		d.logger.Debug().
			Str("endpoint", endpointURL).
			Dur("elapsed", time.Since(start)).
			Int("response_len", len(response)).
			Msg("response received")
	}

	d.settle(reply)
	return nil
}

// claim reserves the single in-flight slot
func (d *Dispatcher) claim() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Closed() {
		return apierrors.ErrSessionClosed
	}
	if d.claimed {
		return apierrors.ErrBusy
	}
	d.claimed = true
	return nil
}

func (d *Dispatcher) raise() {
	d.mu.Lock()
	d.busy.Store(true)
	d.mu.Unlock()
	d.notify(true)
}

// release frees the slot and clears busy together before notifying, so a
// watcher that sees false can Send right away
func (d *Dispatcher) release() {
	d.mu.Lock()
	d.claimed = false
	d.busy.Store(false)
	d.mu.Unlock()
	d.notify(false)
}

// settle appends the reply unless the session ended while the request was pending.
// The closed check runs under the store lock, observers run after it.
func (d *Dispatcher) settle(reply models.Message) {
	if !d.store.AppendIf(reply, func() bool { return !d.Closed() }) {
		d.logger.Debug().Msg("session closed before response arrived, dropping it")
	}
}

func (d *Dispatcher) notify(busy bool) {
	d.mu.Lock()
	watchers := make([]func(bool), len(d.watchers))
	copy(watchers, d.watchers)
	d.mu.Unlock()

	for _, fn := range watchers {
		fn(busy)
	}
}

func (d *Dispatcher) setLastError(err error) {
	d.errMu.Lock()
	d.lastErr = err
	d.errMu.Unlock()
}
