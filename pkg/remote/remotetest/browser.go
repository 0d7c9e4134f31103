package remotetest

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/entrhq/blockdrive/pkg/editor"
	"github.com/entrhq/blockdrive/pkg/remote"
)

// Launcher launches browsers onto simulated editors.
type Launcher struct {
	mu sync.Mutex

	// Load builds the document for a navigated URL. Nil loads Playground.
	Load func(url string) (*Editor, error)

	// Err, when set, fails every launch.
	Err error

	launches []remote.LaunchOptions
	browsers []*Browser
}

// NewLauncher returns a launcher whose documents are built by load.
func NewLauncher(load func(url string) (*Editor, error)) *Launcher {
	return &Launcher{Load: load}
}

// Serve returns a launcher that loads ed for every URL.
func Serve(ed *Editor) *Launcher {
	return NewLauncher(func(string) (*Editor, error) { return ed, nil })
}

// Launch implements remote.Launcher.
func (l *Launcher) Launch(ctx context.Context, opts remote.LaunchOptions) (remote.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Err != nil {
		return nil, l.Err
	}
	l.launches = append(l.launches, opts)
	b := &Browser{load: l.Load}
	l.browsers = append(l.browsers, b)
	return b, nil
}

// Launches returns the options of every launch so far.
func (l *Launcher) Launches() []remote.LaunchOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]remote.LaunchOptions(nil), l.launches...)
}

// Browser returns the most recently launched browser, or nil.
func (l *Launcher) Browser() *Browser {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.browsers) == 0 {
		return nil
	}
	return l.browsers[len(l.browsers)-1]
}

// Browser is a simulated page.
type Browser struct {
	mu     sync.Mutex
	load   func(url string) (*Editor, error)
	url    string
	doc    *Editor
	closed bool
}

// Editor returns the loaded document, or nil before navigation.
func (b *Browser) Editor() *Editor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc
}

// Closed reports whether Close has been called.
func (b *Browser) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Navigate implements remote.Browser.
func (b *Browser) Navigate(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return remote.ErrClosed
	}
	load := b.load
	if load == nil {
		load = func(string) (*Editor, error) { return Playground(), nil }
	}
	doc, err := load(url)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	b.url = url
	b.doc = doc
	return nil
}

// URL implements remote.Browser.
func (b *Browser) URL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url
}

// Query implements remote.Browser.
func (b *Browser) Query(selector string) remote.Element {
	return &element{browser: b, selector: selector, nth: -1}
}

// Execute implements remote.Browser.
func (b *Browser) Execute(script string, arg interface{}) (interface{}, error) {
	doc, err := b.document()
	if err != nil {
		return nil, err
	}
	return doc.execute(script, arg)
}

// Mouse implements remote.Browser.
func (b *Browser) Mouse() remote.Mouse {
	return &mouse{browser: b}
}

// Close implements remote.Browser.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *Browser) document() (*Editor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, remote.ErrClosed
	}
	if b.doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	return b.doc, nil
}

type mouse struct {
	browser *Browser
}

func (m *mouse) Move(x, y float64, steps int) error {
	doc, err := m.browser.document()
	if err != nil {
		return err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.pointerX, doc.pointerY = x, y
	return nil
}

func (m *mouse) Down() error {
	doc, err := m.browser.document()
	if err != nil {
		return err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.press()
	return nil
}

func (m *mouse) Up() error {
	doc, err := m.browser.document()
	if err != nil {
		return err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.release()
	return nil
}

var (
	categoryPattern   = regexp.MustCompile(`^\.blocklyToolboxCategory:has-text\((".*")\)$`)
	flyoutSlotPattern = regexp.MustCompile(`^\.blocklyFlyout \.blocklyBlockCanvas > g:nth-child\((\d+)\)$`)
	blockIDPattern    = regexp.MustCompile(`^\[data-id="(.*)"\]$`)
	menuItemPattern   = regexp.MustCompile(`^div:text-is\((".*")\)$`)
)

type nodeKind int

const (
	nodeCategory nodeKind = iota
	nodeFlyoutBlock
	nodeBlock
	nodeBlockText
	nodeMenuItem
	nodeDirection
)

// node is one matched element, resolved against the document at call time.
type node struct {
	kind  nodeKind
	index int
	block *Block
	rect  rect
}

type element struct {
	browser  *Browser
	parent   *element
	selector string
	nth      int
}

func (el *element) Query(selector string) remote.Element {
	return &element{browser: el.browser, parent: el, selector: selector, nth: -1}
}

func (el *element) Nth(index int) remote.Element {
	cp := *el
	cp.nth = index
	return &cp
}

func (el *element) Count() (int, error) {
	doc, err := el.browser.document()
	if err != nil {
		return 0, err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	nodes, err := el.resolve(doc)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

func (el *element) Click(button remote.MouseButton) error {
	doc, err := el.browser.document()
	if err != nil {
		return err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	n, err := el.single(doc)
	if err != nil {
		return err
	}

	if button == remote.ButtonRight {
		switch n.kind {
		case nodeBlock, nodeBlockText:
			doc.openMenu(n.block)
		default:
			doc.menu = nil
		}
		return nil
	}

	switch n.kind {
	case nodeCategory:
		doc.menu = nil
		doc.openCategory(n.index)
	case nodeMenuItem:
		doc.runMenuItem(doc.menu.items[n.index])
	case nodeBlock, nodeBlockText:
		doc.menu = nil
		doc.selected = n.block
	}
	return nil
}

func (el *element) BoundingBox() (remote.Rect, error) {
	doc, err := el.browser.document()
	if err != nil {
		return remote.Rect{}, err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	n, err := el.single(doc)
	if err != nil {
		return remote.Rect{}, err
	}
	return remote.Rect{X: n.rect.x, Y: n.rect.y, Width: n.rect.w, Height: n.rect.h}, nil
}

func (el *element) SelectIndex(index int) error {
	doc, err := el.browser.document()
	if err != nil {
		return err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	n, err := el.single(doc)
	if err != nil {
		return err
	}
	if n.kind != nodeDirection {
		return fmt.Errorf("element %q is not a <select>", el.selector)
	}
	if index < 0 || index > 1 {
		return fmt.Errorf("select has no option %d", index)
	}
	doc.rtl = index == 1
	return nil
}

// single resolves to exactly one node, the way a strict locator does.
func (el *element) single(doc *Editor) (node, error) {
	nodes, err := el.resolve(doc)
	if err != nil {
		return node{}, err
	}
	switch len(nodes) {
	case 0:
		return node{}, fmt.Errorf("%w: waiting for %s", remote.ErrTimeout, el.selector)
	case 1:
		return nodes[0], nil
	default:
		return node{}, fmt.Errorf("strict mode violation: %s resolved to %d elements", el.selector, len(nodes))
	}
}

func (el *element) resolve(doc *Editor) ([]node, error) {
	var scope []node
	if el.parent != nil {
		parents, err := el.parent.resolve(doc)
		if err != nil {
			return nil, err
		}
		scope = parents
	}

	nodes, err := match(doc, el.selector, el.parent != nil, scope)
	if err != nil {
		return nil, err
	}
	if el.nth >= 0 {
		if el.nth >= len(nodes) {
			return nil, nil
		}
		return nodes[el.nth : el.nth+1], nil
	}
	return nodes, nil
}

func match(doc *Editor, selector string, scoped bool, scope []node) ([]node, error) {
	if scoped {
		if selector != editor.BlockTextSelector {
			return nil, fmt.Errorf("unsupported scoped selector %q", selector)
		}
		var out []node
		for _, p := range scope {
			if p.kind == nodeBlock {
				out = append(out, node{kind: nodeBlockText, block: p.block, rect: doc.textRect(p.block)})
			}
		}
		return out, nil
	}

	if selector == editor.DirectionSelector {
		return []node{{kind: nodeDirection}}, nil
	}

	if m := categoryPattern.FindStringSubmatch(selector); m != nil {
		name, err := strconv.Unquote(m[1])
		if err != nil {
			return nil, err
		}
		var out []node
		for i, c := range doc.categories {
			if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
				out = append(out, node{kind: nodeCategory, index: i, rect: categoryRect(i)})
			}
		}
		return out, nil
	}

	if m := flyoutSlotPattern.FindStringSubmatch(selector); m != nil {
		child, _ := strconv.Atoi(m[1])
		if child < 3 || (child-3)%2 != 0 {
			return nil, nil
		}
		i := (child - 3) / 2
		if i >= len(doc.flyout) {
			return nil, nil
		}
		return []node{doc.flyoutNode(i)}, nil
	}

	if m := blockIDPattern.FindStringSubmatch(selector); m != nil {
		id := m[1]
		for i, fb := range doc.flyout {
			if fb.id == id {
				return []node{doc.flyoutNode(i)}, nil
			}
		}
		if b := doc.findAny(id); b != nil {
			return []node{{kind: nodeBlock, block: b, rect: doc.blockRect(b)}}, nil
		}
		return nil, nil
	}

	if m := menuItemPattern.FindStringSubmatch(selector); m != nil {
		text, err := strconv.Unquote(m[1])
		if err != nil {
			return nil, err
		}
		if doc.menu == nil {
			return nil, nil
		}
		for i, item := range doc.menu.items {
			if item == text {
				return []node{{kind: nodeMenuItem, index: i, rect: doc.menuRect(i)}}, nil
			}
		}
		return nil, nil
	}

	return nil, fmt.Errorf("unsupported selector %q", selector)
}

// flyoutNode renders flyout block i. Text lookups inside it are not supported.
func (e *Editor) flyoutNode(i int) node {
	return node{kind: nodeFlyoutBlock, index: i, rect: e.flyoutRect(i)}
}
