package session

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/arloliu/go-instrument/deverr"
	"github.com/arloliu/go-instrument/internal/util"
	"github.com/arloliu/go-instrument/logger"
	"github.com/arloliu/go-instrument/profile"
	"github.com/arloliu/go-instrument/status"
	"github.com/arloliu/go-instrument/transport"
)

// Session drives one instrument over a transport.
type Session struct {
	tr      transport.Transport
	cfg     *Config
	logger  logger.Logger
	state   AtomicOpState
	metrics Metrics

	mu           sync.RWMutex
	profile      profile.Profile
	identity     string
	lastAction   string
	lastSent     string
	lastReceived string

	// error queue episode, see QueryDeviceErrors
	register        *status.Register
	errors          *deverr.Queue
	draining        atomic.Bool
	hasDeviceError  bool
	lastDeviceError deverr.DeviceError
	report          string
	reportLines     int
	preamble        string

	completion atomic.Int32
}

// NewSession creates a session over tr. A nil cfg selects the defaults of NewConfig.
//
// The session takes ownership of tr and closes it on Close.
func NewSession(tr transport.Transport, cfg *Config) (*Session, error) {
	if tr == nil {
		return nil, ErrTransportNil
	}

	if cfg == nil {
		var err error
		if cfg, err = NewConfig(); err != nil {
			return nil, err
		}
	}

	p := cfg.Profile()
	s := &Session{
		tr:              tr,
		cfg:             cfg,
		logger:          cfg.Logger().With("resource", tr.ResourceName()),
		register:        status.NewRegister(p.Bitmasks),
		errors:          deverr.NewQueue(p.NoErrorCompoundMessage),
		lastDeviceError: deverr.New(),
	}

	s.state.ToOpening()
	s.register.SetErrorDrainer(s.drainErrors)

	if t := cfg.Timeout(); t > 0 {
		tr.SetTimeout(t)
	}
	s.ApplyProfile(p)

	s.state.ToOpened()
	s.logger.Debug("session opened", "language", p.Language.String(), "timeout", tr.Timeout())

	return s, nil
}

// Close closes the session and its transport. Close is idempotent.
func (s *Session) Close() error {
	if s.state.IsClosed() {
		return nil
	}
	if !s.state.ToClosing() {
		return nil
	}

	err := s.tr.Close()
	s.state.ToClosed()
	s.logger.Debug("session closed")

	return err
}

// State returns the lifecycle state.
func (s *Session) State() OpState {
	return s.state.Get()
}

// ResourceName returns the resource name of the transport.
func (s *Session) ResourceName() string {
	return s.tr.ResourceName()
}

// Transport returns the underlying transport.
func (s *Session) Transport() transport.Transport {
	return s.tr
}

// Config returns the session configuration.
func (s *Session) Config() *Config {
	return s.cfg
}

// Configure applies runtime options, e.g. WithPollInterval, to the session configuration.
// Options that can't be changed at runtime are rejected.
func (s *Session) Configure(opts ...Option) error {
	for _, opt := range opts {
		if !opt.isRuntime() {
			return fmt.Errorf("session: option can't be changed at runtime: %T", opt)
		}
	}

	for _, opt := range opts {
		if err := opt.apply(s.cfg); err != nil {
			return err
		}
	}

	if t := s.cfg.Timeout(); t > 0 {
		s.tr.SetTimeout(t)
	}

	return nil
}

// Metrics returns the session counters.
func (s *Session) Metrics() *Metrics {
	return &s.metrics
}

// Status returns the status register holding the cached status byte and its masks.
func (s *Session) Status() *status.Register {
	return s.register
}

// Profile returns a copy of the active command language profile.
func (s *Session) Profile() profile.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.profile
}

// Language returns the active command language.
func (s *Session) Language() profile.Language {
	return s.Profile().Language
}

// ApplyLanguage switches to the built-in profile of lang.
func (s *Session) ApplyLanguage(lang profile.Language) {
	s.ApplyProfile(profile.For(lang))
}

// ApplyProfile replaces every command and flag with those of p, and re-arms the status masks
// with the defaults of p.
func (s *Session) ApplyProfile(p profile.Profile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()

	s.register.ResetBitmasks(p.Bitmasks)
	s.errors.SetNoErrorMessage(p.NoErrorCompoundMessage)
	s.completion.Store(int32(CompletionUnknown))

	if sq, ok := s.tr.(transport.StatusQueryConfigurer); ok && profile.Supported(p.ServiceRequestStatusQueryCommand) {
		sq.SetStatusQuery(p.ServiceRequestStatusQueryCommand)
	}

	s.logger.Debug("command language applied", "language", p.Language.String())
}

// OperationCompleted returns the outcome of the most recent operation-complete handshake.
func (s *Session) OperationCompleted() Completion {
	return Completion(s.completion.Load())
}

func (s *Session) setCompletion(c Completion) {
	s.completion.Store(int32(c))
}

// AddPropertyHandler registers handlers notified of property p on every applied status byte.
func (s *Session) AddPropertyHandler(p status.Property, handlers ...status.PropertyChangeHandler) {
	s.register.AddPropertyHandler(p, handlers...)
}

// AddDeviceErrorHandler registers handlers invoked with the report of every drain that found errors
// while applying a status byte.
func (s *Session) AddDeviceErrorHandler(handlers ...status.DeviceErrorHandler) {
	s.register.AddDeviceErrorHandler(handlers...)
}

// LastAction returns the description of the most recent handshake or operation.
func (s *Session) LastAction() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastAction
}

// LastSent returns the most recently written line.
func (s *Session) LastSent() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSent
}

// LastReceived returns the most recently read line.
func (s *Session) LastReceived() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastReceived
}

func (s *Session) setAction(action string) {
	s.mu.Lock()
	s.lastAction = action
	s.mu.Unlock()
}

func (s *Session) buildPreamble() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "last action: %s", s.lastAction)
	fmt.Fprintf(&sb, "; sent: %s", util.EscapeControl(s.lastSent))
	fmt.Fprintf(&sb, "; received: %s", util.EscapeControl(s.lastReceived))

	return sb.String()
}

func (s *Session) checkOpened() error {
	if !s.state.IsOpened() {
		return ErrSessionClosed
	}

	return nil
}
