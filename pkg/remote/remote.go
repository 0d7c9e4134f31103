// Package remote defines the automation boundary between the harness and a
// remote browser, and provides its Playwright implementation.
//
// The harness issues four kinds of command across the boundary:
//
//   - navigate: Browser.Navigate loads a document
//   - query: Browser.Query / Element.Query resolve selectors to lazy elements
//   - execute: Browser.Execute evaluates a script against live document state
//   - interact: Element.Click, Element.SelectIndex and the Mouse perform gestures
//
// Elements are lazy: a query does not touch the document until an element is
// counted, measured or clicked, and every such call re-resolves the selector.
// An element that stops matching between calls is reported as an error by the
// call that observes it; nothing is retried here.
package remote

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrTimeout reports that the remote side gave up waiting on an element.
	ErrTimeout = errors.New("remote: timeout")

	// ErrNotVisible reports that an element has no on-screen bounding box.
	ErrNotVisible = errors.New("remote: element not visible")

	// ErrClosed reports use of a browser after Close.
	ErrClosed = errors.New("remote: browser closed")
)

// Launcher starts remote browsers.
type Launcher interface {
	// Launch starts a browser and opens one blank page in it.
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

// Browser is one live remote page.
type Browser interface {
	// Navigate loads url and waits for the document's load event.
	Navigate(url string) error

	// URL returns the address of the current document.
	URL() string

	// Query returns a lazy element for selector, scoped to the document.
	Query(selector string) Element

	// Execute evaluates script, a function expression, with arg as its single
	// argument and returns the JSON-compatible result.
	Execute(script string, arg interface{}) (interface{}, error)

	// Mouse returns the page's pointer.
	Mouse() Mouse

	// Close releases the page and the browser behind it.
	Close() error
}

// Element is a lazy reference to zero or more document elements.
type Element interface {
	// Query returns a lazy element for selector, scoped to this element.
	Query(selector string) Element

	// Nth narrows the match to the index-th element (0-indexed).
	Nth(index int) Element

	// Count returns the number of elements currently matching.
	Count() (int, error)

	// Click clicks the centre of the single matching element.
	Click(button MouseButton) error

	// BoundingBox returns the element's box in viewport coordinates.
	BoundingBox() (Rect, error)

	// SelectIndex selects the index-th option of a <select> element.
	SelectIndex(index int) error
}

// Mouse drives the page's pointer in viewport coordinates.
type Mouse interface {
	// Move moves the pointer to (x, y) through steps intermediate events.
	Move(x, y float64, steps int) error

	// Down presses the primary button.
	Down() error

	// Up releases the primary button.
	Up() error
}

// MouseButton identifies a pointer button.
type MouseButton string

const (
	// ButtonLeft is the primary button
	ButtonLeft MouseButton = "left"

	// ButtonRight is the secondary (context-menu) button
	ButtonRight MouseButton = "right"
)

// Rect is an axis-aligned box in viewport coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the centre of the box.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether (x, y) lies inside the box.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// LaunchOptions configures a new browser.
type LaunchOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Args are the browser command-line flags
	Args []string

	// Viewport sets the page size
	Viewport Viewport

	// SlowMo delays every remote operation
	SlowMo time.Duration

	// Timeout bounds the remote side's own element waits
	Timeout time.Duration

	// NavigationTimeout bounds document loads
	NavigationTimeout time.Duration

	// Output receives driver installation and process output; nil discards it
	Output io.Writer
}

// Viewport represents the page dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for launch options
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultTimeout        = 30 * time.Second
)
