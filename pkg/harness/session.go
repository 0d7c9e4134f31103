package harness

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/blockdrive/pkg/config"
	"github.com/entrhq/blockdrive/pkg/editor"
	"github.com/entrhq/blockdrive/pkg/logging"
	"github.com/entrhq/blockdrive/pkg/remote"
)

// Session is the live browser connection. Obtain one from a SessionManager.
type Session struct {
	mu      sync.Mutex
	browser remote.Browser
	cfg     *config.Config
	logger  *logging.Logger
	closed  bool

	// Headless indicates if the browser is running in headless mode
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// CurrentURL is the URL of the current page
	CurrentURL string
}

// Navigate loads url and waits for the document to load.
func (s *Session) Navigate(url string) error {
	b, err := s.remote("Navigate")
	if err != nil {
		return err
	}

	s.logger.Infof("Navigating to %s", url)
	if err := b.Navigate(url); err != nil {
		return err
	}

	s.mu.Lock()
	s.CurrentURL = b.URL()
	s.mu.Unlock()
	return nil
}

// Info returns a snapshot of the session's metadata.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		CurrentURL: s.CurrentURL,
		Headless:   s.Headless,
		CreatedAt:  s.CreatedAt,
		LastUsedAt: s.LastUsedAt,
	}
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Locator returns the session's element locator.
func (s *Session) Locator() *ElementLocator {
	return &ElementLocator{s: s}
}

// Geometry returns the session's connection geometry.
func (s *Session) Geometry() *ConnectionGeometry {
	return &ConnectionGeometry{s: s}
}

// Gestures returns the session's gesture simulator.
func (s *Session) Gestures() *GestureSimulator {
	return &GestureSimulator{s: s, locator: s.Locator(), inspector: s.Inspector()}
}

// Inspector returns the session's workspace inspector.
func (s *Session) Inspector() *WorkspaceInspector {
	return &WorkspaceInspector{s: s}
}

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.mu.Lock()
	s.LastUsedAt = time.Now()
	s.mu.Unlock()
}

// remote returns the browser for op, or a session error once torn down.
func (s *Session) remote(op string) (remote.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, sessionError(op, fmt.Errorf("session has been torn down"))
	}
	s.LastUsedAt = time.Now()
	return s.browser, nil
}

// execute runs q and decodes its result into out.
func (s *Session) execute(op string, q editor.Query, arg interface{}, out interface{}) error {
	b, err := s.remote(op)
	if err != nil {
		return err
	}
	value, err := b.Execute(string(q), arg)
	if err != nil {
		return err
	}
	return editor.Decode(value, out)
}

func (s *Session) pollOptions() *PollOptions {
	return &PollOptions{
		Timeout:  s.cfg.Timeouts.Wait,
		Interval: s.cfg.Timeouts.PollInterval,
	}
}

func (s *Session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.browser.Close()
}
