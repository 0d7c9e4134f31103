package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher launches Chromium through Playwright.
type PlaywrightLauncher struct {
	mu          sync.Mutex
	skipInstall bool
	installed   bool
}

// NewPlaywrightLauncher creates a launcher that installs the Playwright driver
// and Chromium on first use.
func NewPlaywrightLauncher() *PlaywrightLauncher {
	return &PlaywrightLauncher{}
}

// SkipInstall disables the driver download, for hosts that provision it.
func (l *PlaywrightLauncher) SkipInstall() *PlaywrightLauncher {
	l.skipInstall = true
	return l
}

// Launch starts Playwright, launches Chromium and opens a page.
func (l *PlaywrightLauncher) Launch(ctx context.Context, opts LaunchOptions) (Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Set defaults
	if opts.Viewport.Width == 0 || opts.Viewport.Height == 0 {
		opts.Viewport = Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.NavigationTimeout == 0 {
		opts.NavigationTimeout = opts.Timeout
	}
	output := opts.Output
	if output == nil {
		output = io.Discard
	}

	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   output,
		Stderr:   output,
	}

	if err := l.install(runOpts); err != nil {
		return nil, err
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.Args,
	}
	if opts.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(milliseconds(opts.SlowMo))
	}
	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(milliseconds(opts.Timeout))
	page.SetDefaultNavigationTimeout(milliseconds(opts.NavigationTimeout))

	return &playwrightBrowser{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
	}, nil
}

func (l *PlaywrightLauncher) install(runOpts *playwright.RunOptions) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.skipInstall || l.installed {
		return nil
	}
	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	l.installed = true
	return nil
}

type playwrightBrowser struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	closed  bool
}

func (b *playwrightBrowser) Navigate(url string) error {
	if b.isClosed() {
		return ErrClosed
	}
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", translate(err))
	}
	return nil
}

func (b *playwrightBrowser) URL() string {
	if b.isClosed() {
		return ""
	}
	return b.page.URL()
}

func (b *playwrightBrowser) Query(selector string) Element {
	return &playwrightElement{loc: b.page.Locator(selector)}
}

func (b *playwrightBrowser) Execute(script string, arg interface{}) (interface{}, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}

	var (
		result interface{}
		err    error
	)
	if arg == nil {
		result, err = b.page.Evaluate(script)
	} else {
		result, err = b.page.Evaluate(script, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("script execution failed: %w", translate(err))
	}
	return result, nil
}

func (b *playwrightBrowser) Mouse() Mouse {
	return &playwrightMouse{mouse: b.page.Mouse()}
}

// Close closes the page, context and browser, then stops Playwright.
// Every step runs even if an earlier one fails.
func (b *playwrightBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if err := b.page.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

func (b *playwrightBrowser) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

type playwrightElement struct {
	loc playwright.Locator
}

func (e *playwrightElement) Query(selector string) Element {
	return &playwrightElement{loc: e.loc.Locator(selector)}
}

func (e *playwrightElement) Nth(index int) Element {
	return &playwrightElement{loc: e.loc.Nth(index)}
}

func (e *playwrightElement) Count() (int, error) {
	n, err := e.loc.Count()
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (e *playwrightElement) Click(button MouseButton) error {
	opts := playwright.LocatorClickOptions{Button: playwright.MouseButtonLeft}
	if button == ButtonRight {
		opts.Button = playwright.MouseButtonRight
	}
	if err := e.loc.Click(opts); err != nil {
		return fmt.Errorf("click failed: %w", translate(err))
	}
	return nil
}

func (e *playwrightElement) BoundingBox() (Rect, error) {
	box, err := e.loc.BoundingBox()
	if err != nil {
		return Rect{}, translate(err)
	}
	if box == nil {
		return Rect{}, ErrNotVisible
	}
	return Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (e *playwrightElement) SelectIndex(index int) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{Indexes: &[]int{index}})
	if err != nil {
		return fmt.Errorf("select failed: %w", translate(err))
	}
	return nil
}

type playwrightMouse struct {
	mouse playwright.Mouse
}

func (m *playwrightMouse) Move(x, y float64, steps int) error {
	if steps < 1 {
		steps = 1
	}
	return translate(m.mouse.Move(x, y, playwright.MouseMoveOptions{Steps: playwright.Int(steps)}))
}

func (m *playwrightMouse) Down() error {
	return translate(m.mouse.Down())
}

func (m *playwrightMouse) Up() error {
	return translate(m.mouse.Up())
}

// translate maps Playwright's timeout onto ErrTimeout, keeping the driver's
// message.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
