package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/blockdrive/pkg/config"
	"github.com/entrhq/blockdrive/pkg/logging"
	"github.com/entrhq/blockdrive/pkg/remote"
)

// SessionManager owns the single browser session of a harness run. The
// session is created on first use and lives until Teardown.
type SessionManager struct {
	mu       sync.RWMutex
	cfg      *config.Config
	launcher remote.Launcher
	logger   *logging.Logger
	session  *Session
}

// NewSessionManager creates a session manager. A nil cfg uses the defaults and
// a nil logger discards output.
func NewSessionManager(cfg *config.Config, launcher remote.Launcher, logger *logging.Logger) *SessionManager {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &SessionManager{
		cfg:      cfg,
		launcher: launcher,
		logger:   logger.With("session"),
	}
}

// Config returns the configuration sessions are launched with.
func (m *SessionManager) Config() *config.Config {
	return m.cfg
}

// EnsureSession returns the live session, launching the browser if there is
// none. Launch failures are returned as session errors and not retried.
func (m *SessionManager) EnsureSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return m.session, nil
	}
	if m.launcher == nil {
		return nil, sessionError("EnsureSession", fmt.Errorf("no launcher configured"))
	}

	opts := m.launchOptions()
	m.logger.Infof("Launching browser (headless=%v, args=%v)", opts.Headless, opts.Args)

	browser, err := m.launcher.Launch(ctx, opts)
	if err != nil {
		m.logger.Errorf("Browser launch failed: %v", err)
		return nil, sessionError("EnsureSession", fmt.Errorf("failed to launch browser: %w", err))
	}

	now := time.Now()
	m.session = &Session{
		browser:    browser,
		cfg:        m.cfg,
		logger:     m.logger,
		Headless:   opts.Headless,
		CreatedAt:  now,
		LastUsedAt: now,
		CurrentURL: "about:blank",
	}
	m.logger.Infof("Browser session started")
	return m.session, nil
}

// Open ensures a session and navigates it to url.
func (m *SessionManager) Open(ctx context.Context, url string) (*Session, error) {
	s, err := m.EnsureSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Navigate(url); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the live session, if any.
func (m *SessionManager) Current() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, m.session != nil
}

// HasSession returns true if a session is live.
func (m *SessionManager) HasSession() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil
}

// Teardown closes the live session. It is a no-op when there is none, and the
// manager is reusable afterwards.
func (m *SessionManager) Teardown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil
	}

	s := m.session
	m.session = nil
	if err := s.close(); err != nil {
		m.logger.Warnf("Errors closing browser session: %v", err)
		return sessionError("Teardown", err)
	}
	m.logger.Infof("Browser session closed")
	return nil
}

// Info returns metadata about the live session.
func (m *SessionManager) Info() (SessionInfo, bool) {
	s, ok := m.Current()
	if !ok {
		return SessionInfo{}, false
	}
	return s.Info(), true
}

func (m *SessionManager) launchOptions() remote.LaunchOptions {
	b := m.cfg.Browser
	return remote.LaunchOptions{
		Headless: b.IsHeadless(),
		Args:     b.LaunchArgs(),
		Viewport: remote.Viewport{
			Width:  b.ViewportWidth,
			Height: b.ViewportHeight,
		},
		SlowMo:            b.SlowMo,
		Timeout:           m.cfg.Timeouts.Wait,
		NavigationTimeout: m.cfg.Timeouts.Navigation,
		Output:            m.logger.Writer(),
	}
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	CurrentURL string
	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time
}
