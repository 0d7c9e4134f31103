// Package remotetest provides an in-memory editor document that implements the
// remote boundary. It renders a toolbox, a flyout, a main workspace and
// optional mutator workspaces as boxes in viewport space, answers the editor
// queries, and reacts to pointer gestures the way a block editor does: flyout
// drags create blocks, surface drags move them, and drops near a compatible
// connection snap.
package remotetest

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Layout constants, in viewport pixels.
const (
	ToolboxWidth     = 100.0
	CategoryHeight   = 30.0
	FlyoutLeft       = 110.0
	FlyoutTop        = 20.0
	FlyoutSpacing    = 60.0
	SurfaceOriginX   = 300.0
	SurfaceOriginY   = 80.0
	SnapRadius       = 28.0
	DragThreshold    = 3.0
	textInsetX       = 4.0
	textInsetY       = 4.0
	textHeight       = 14.0
	inputSpacing     = 25.0
	firstInputOffset = 10.0
)

// Context menu labels.
const (
	MenuDuplicate   = "Duplicate"
	MenuAddComment  = "Add Comment"
	MenuDeleteBlock = "Delete Block"
)

// BlockType describes a kind of block the editor can create.
type BlockType struct {
	Type     string
	Text     string
	Width    float64
	Height   float64
	Output   bool
	Previous bool
	Next     bool

	// Inputs are value inputs; Statements are statement inputs.
	Inputs     []string
	Statements []string
}

// Category is a toolbox category and the block types its flyout shows.
type Category struct {
	Name   string
	Blocks []BlockType
}

// Block is a block on a workspace.
type Block struct {
	ID   string
	Type BlockType
	X    float64
	Y    float64

	// Parent is the block this block's output or previous connection is
	// attached to, and ParentSlot the connection on the parent.
	Parent     *Block
	ParentSlot Slot

	workspace *workspace
}

// Slot names one connection of a block.
type Slot struct {
	Kind string
	Name string
}

type workspace struct {
	owner  *Block
	blocks []*Block
}

type flyoutBlock struct {
	id  string
	typ BlockType
}

type menuState struct {
	block *Block
	items []string
}

type dragState struct {
	startX, startY float64
	fromFlyout     *flyoutBlock
	block          *Block
}

// Editor is the simulated document. All methods are safe for concurrent use.
type Editor struct {
	mu sync.Mutex

	categories []Category
	flat       []BlockType
	open       int // index of the open category, -1 when closed
	flyout     []flyoutBlock

	main     *workspace
	mutators map[string]*workspace
	selected *Block
	menu     *menuState
	rtl      bool
	scale    float64
	scrollX  float64
	scrollY  float64

	pointerX, pointerY float64
	drag               *dragState

	// Executed counts query executions by script, for assertions.
	executed map[string]int
}

// NewEditor creates an editor with a categorised toolbox.
func NewEditor(categories ...Category) *Editor {
	return &Editor{
		categories: categories,
		open:       -1,
		main:       &workspace{},
		mutators:   make(map[string]*workspace),
		scale:      1,
		executed:   make(map[string]int),
	}
}

// NewFlatEditor creates an editor whose toolbox has no categories; its
// flyout is always open.
func NewFlatEditor(types ...BlockType) *Editor {
	e := NewEditor()
	e.flat = types
	e.flyout = newFlyout(types)
	return e
}

// Standard block types of the test playground.
var (
	BasicEmpty = BlockType{Type: "test_basic_empty", Text: "", Width: 60, Height: 30, Previous: true, Next: true}
	BasicRow   = BlockType{Type: "test_basic_row", Text: "row block", Width: 120, Height: 30, Output: true, Inputs: []string{"INPUT"}}
	BasicValue = BlockType{Type: "test_basic_value_to_stack", Text: "value to stack", Width: 140, Height: 40,
		Previous: true, Next: true, Inputs: []string{"VALUE"}}
	ListsCreate = BlockType{Type: "lists_create_with", Text: "create list with", Width: 150, Height: 60,
		Output: true, Inputs: []string{"ADD0", "ADD1"}}
	ListsContainer = BlockType{Type: "lists_create_with_container", Text: "list", Width: 80, Height: 50,
		Statements: []string{"STACK"}}
	ListsItem = BlockType{Type: "lists_create_with_item", Text: "item", Width: 60, Height: 25,
		Previous: true, Next: true}
)

// Playground returns an editor laid out like the test-blocks playground.
func Playground() *Editor {
	return NewEditor(
		Category{Name: "Basic", Blocks: []BlockType{BasicEmpty, BasicRow, BasicValue}},
		Category{Name: "Lists", Blocks: []BlockType{ListsCreate}},
	)
}

// SetScroll pans the main workspace, in workspace units.
func (e *Editor) SetScroll(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scrollX, e.scrollY = x, y
}

// SetScale zooms the main workspace.
func (e *Editor) SetScale(scale float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scale = scale
}

// AddBlock places a block of typ on the main workspace and returns its id.
func (e *Editor) AddBlock(typ BlockType, x, y float64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addBlock(e.main, typ, x, y).ID
}

// AddMutatorBlock places a block in the mutator workspace of owner, opening
// the mutator if needed.
func (e *Editor) AddMutatorBlock(ownerID string, typ BlockType, x, y float64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	owner := e.main.find(ownerID)
	if owner == nil {
		return "", fmt.Errorf("no block %q", ownerID)
	}
	ws, ok := e.mutators[ownerID]
	if !ok {
		ws = &workspace{owner: owner}
		e.mutators[ownerID] = ws
	}
	return e.addBlock(ws, typ, x, y).ID, nil
}

// Connect attaches child's output or previous connection to parent's slot.
func (e *Editor) Connect(childID, parentID string, slot Slot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	child, parent := e.findAny(childID), e.findAny(parentID)
	if child == nil || parent == nil {
		return fmt.Errorf("unknown block")
	}
	e.attach(child, parent, slot)
	return nil
}

// Select makes id the selected block; "" clears the selection.
func (e *Editor) Select(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = e.findAny(id)
}

// Blocks returns the main workspace blocks in creation order.
func (e *Editor) Blocks() []Block {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Block, 0, len(e.main.blocks))
	for _, b := range e.main.blocks {
		out = append(out, *b)
	}
	return out
}

// Block returns a copy of the block with id from any workspace.
func (e *Editor) Block(id string) (Block, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.findAny(id)
	if b == nil {
		return Block{}, false
	}
	return *b, true
}

// SelectedID returns the selected block's id, or "".
func (e *Editor) SelectedID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == nil {
		return ""
	}
	return e.selected.ID
}

// RTL reports whether the editor renders right-to-left.
func (e *Editor) RTL() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rtl
}

// MenuOpen reports whether a context menu is showing.
func (e *Editor) MenuOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.menu != nil
}

// FlyoutOpen reports whether the flyout is showing blocks.
func (e *Editor) FlyoutOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.flyout) > 0
}

// Executions returns how many times script has been executed.
func (e *Editor) Executions(script string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.executed[script]
}

// ConnectionPoint returns the screen position of a block's connection.
func (e *Editor) ConnectionPoint(id string, slot Slot) (float64, float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.findAny(id)
	if b == nil {
		return 0, 0, fmt.Errorf("no block %q", id)
	}
	ox, oy, ok := b.offset(slot)
	if !ok {
		return 0, 0, fmt.Errorf("block %q has no %s connection", id, slot.Kind)
	}
	x, y := e.toScreen(b.X+ox, b.Y+oy)
	return x, y, nil
}

func (e *Editor) addBlock(ws *workspace, typ BlockType, x, y float64) *Block {
	b := &Block{ID: uuid.NewString(), Type: typ, X: x, Y: y, workspace: ws}
	ws.blocks = append(ws.blocks, b)
	return b
}

func (ws *workspace) find(id string) *Block {
	for _, b := range ws.blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (e *Editor) findAny(id string) *Block {
	if id == "" {
		return nil
	}
	if b := e.main.find(id); b != nil {
		return b
	}
	for _, ws := range e.sortedMutators() {
		if b := ws.find(id); b != nil {
			return b
		}
	}
	return nil
}

func (e *Editor) sortedMutators() []*workspace {
	keys := make([]string, 0, len(e.mutators))
	for k := range e.mutators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*workspace, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.mutators[k])
	}
	return out
}

// offset returns the connection's position relative to the block's origin.
func (b *Block) offset(slot Slot) (float64, float64, bool) {
	switch slot.Kind {
	case "output":
		return 0, 0, b.Type.Output
	case "previous":
		return 0, 0, b.Type.Previous
	case "next":
		return 0, b.Type.Height, b.Type.Next
	case "input":
		for i, name := range b.Type.Inputs {
			if name == slot.Name {
				return b.Type.Width, firstInputOffset + inputSpacing*float64(i), true
			}
		}
		for i, name := range b.Type.Statements {
			if name == slot.Name {
				return 20, firstInputOffset + inputSpacing*float64(len(b.Type.Inputs)+i), true
			}
		}
	}
	return 0, 0, false
}

// target returns the block attached to slot of b, if any.
func (b *Block) target(slot Slot) *Block {
	for _, other := range b.workspace.blocks {
		if other.Parent == b && other.ParentSlot == slot {
			return other
		}
	}
	return nil
}

func (e *Editor) toScreen(x, y float64) (float64, float64) {
	return SurfaceOriginX + (x-e.scrollX)*e.scale, SurfaceOriginY + (y-e.scrollY)*e.scale
}

func (e *Editor) toWorkspace(x, y float64) (float64, float64) {
	return (x-SurfaceOriginX)/e.scale + e.scrollX, (y-SurfaceOriginY)/e.scale + e.scrollY
}

func (e *Editor) blockRect(b *Block) rect {
	x, y := e.toScreen(b.X, b.Y)
	return rect{x, y, b.Type.Width * e.scale, b.Type.Height * e.scale}
}

func (e *Editor) textRect(b *Block) rect {
	r := e.blockRect(b)
	w := math.Max(float64(len(b.Type.Text))*6, 8)
	return rect{r.x + textInsetX, r.y + textInsetY, w, textHeight}
}

func categoryRect(i int) rect {
	return rect{0, float64(i) * CategoryHeight, ToolboxWidth, CategoryHeight}
}

func (e *Editor) flyoutRect(i int) rect {
	typ := e.flyout[i].typ
	return rect{FlyoutLeft, FlyoutTop + FlyoutSpacing*float64(i), typ.Width, typ.Height}
}

func (e *Editor) menuRect(i int) rect {
	r := e.textRect(e.menu.block)
	return rect{r.x + 10, r.y + 10 + float64(i)*24, 120, 24}
}

func newFlyout(types []BlockType) []flyoutBlock {
	out := make([]flyoutBlock, 0, len(types))
	for _, t := range types {
		out = append(out, flyoutBlock{id: uuid.NewString(), typ: t})
	}
	return out
}

func (e *Editor) openCategory(i int) {
	if e.open == i {
		e.closeFlyout()
		return
	}
	e.open = i
	e.flyout = newFlyout(e.categories[i].Blocks)
}

func (e *Editor) closeFlyout() {
	if e.flat != nil {
		return
	}
	e.open = -1
	e.flyout = nil
}

// depth counts the ancestors of b.
func depth(b *Block) int {
	n := 0
	for p := b.Parent; p != nil; p = p.Parent {
		n++
	}
	return n
}

// descendants returns b and every block attached below it.
func descendants(b *Block) []*Block {
	out := []*Block{b}
	for _, other := range b.workspace.blocks {
		if other.Parent == b {
			out = append(out, descendants(other)...)
		}
	}
	return out
}

// blockAt returns the topmost block under (x, y) across all workspaces.
func (e *Editor) blockAt(x, y float64) *Block {
	var best *Block
	for _, ws := range append([]*workspace{e.main}, e.sortedMutators()...) {
		for _, b := range ws.blocks {
			if !e.blockRect(b).contains(x, y) {
				continue
			}
			if best == nil || depth(b) >= depth(best) {
				best = b
			}
		}
	}
	return best
}

func (e *Editor) flyoutAt(x, y float64) *flyoutBlock {
	for i := range e.flyout {
		if e.flyoutRect(i).contains(x, y) {
			return &e.flyout[i]
		}
	}
	return nil
}

func (e *Editor) press() {
	e.menu = nil
	d := &dragState{startX: e.pointerX, startY: e.pointerY}
	if fb := e.flyoutAt(e.pointerX, e.pointerY); fb != nil {
		d.fromFlyout = fb
	} else if b := e.blockAt(e.pointerX, e.pointerY); b != nil {
		d.block = b
	}
	e.drag = d
}

func (e *Editor) release() {
	d := e.drag
	e.drag = nil
	if d == nil {
		return
	}

	dx, dy := e.pointerX-d.startX, e.pointerY-d.startY
	moved := math.Hypot(dx, dy) >= DragThreshold

	switch {
	case d.fromFlyout != nil && moved:
		idx := e.flyoutIndex(d.fromFlyout.id)
		r := e.flyoutRect(idx)
		x, y := e.toWorkspace(r.x+dx, r.y+dy)
		b := e.addBlock(e.main, d.fromFlyout.typ, x, y)
		e.selected = b
		e.closeFlyout()
		e.snap(b)
	case d.block != nil && moved:
		b := d.block
		b.Parent = nil
		b.ParentSlot = Slot{}
		for _, m := range descendants(b) {
			m.X += dx / e.scale
			m.Y += dy / e.scale
		}
		e.selected = b
		e.snap(b)
	case d.block != nil:
		e.selected = d.block
	}
}

func (e *Editor) flyoutIndex(id string) int {
	for i, fb := range e.flyout {
		if fb.id == id {
			return i
		}
	}
	return -1
}

// snap attaches b's output or previous connection to the nearest free
// compatible connection within SnapRadius in the same workspace.
func (e *Editor) snap(b *Block) {
	type candidate struct {
		parent *Block
		slot   Slot
		mine   Slot
		dist   float64
	}

	var best *candidate
	moving := descendants(b)
	consider := func(mine Slot, theirs []Slot, other *Block) {
		mx, my, ok := b.offset(mine)
		if !ok {
			return
		}
		for _, s := range theirs {
			ox, oy, ok := other.offset(s)
			if !ok || other.target(s) != nil {
				continue
			}
			d := math.Hypot(other.X+ox-(b.X+mx), other.Y+oy-(b.Y+my))
			if d <= SnapRadius && (best == nil || d < best.dist) {
				best = &candidate{other, s, mine, d}
			}
		}
	}

	for _, other := range b.workspace.blocks {
		if contains(moving, other) {
			continue
		}
		values := make([]Slot, 0, len(other.Type.Inputs))
		for _, name := range other.Type.Inputs {
			values = append(values, Slot{Kind: "input", Name: name})
		}
		statements := []Slot{{Kind: "next"}}
		for _, name := range other.Type.Statements {
			statements = append(statements, Slot{Kind: "input", Name: name})
		}
		consider(Slot{Kind: "output"}, values, other)
		consider(Slot{Kind: "previous"}, statements, other)
	}

	if best != nil {
		e.attach(b, best.parent, best.slot)
	}
}

// attach connects child below parent's slot and aligns the two connections.
func (e *Editor) attach(child, parent *Block, slot Slot) {
	mine := Slot{Kind: "previous"}
	if child.Type.Output {
		mine = Slot{Kind: "output"}
	}
	px, py, _ := parent.offset(slot)
	cx, cy, _ := child.offset(mine)
	dx := parent.X + px - (child.X + cx)
	dy := parent.Y + py - (child.Y + cy)
	for _, m := range descendants(child) {
		m.X += dx
		m.Y += dy
	}
	child.Parent = parent
	child.ParentSlot = slot
}

func contains(blocks []*Block, b *Block) bool {
	for _, x := range blocks {
		if x == b {
			return true
		}
	}
	return false
}

func (e *Editor) openMenu(b *Block) {
	n := len(descendants(b))
	del := MenuDeleteBlock
	if n > 1 {
		del = fmt.Sprintf("Delete %d Blocks", n)
	}
	e.menu = &menuState{block: b, items: []string{MenuDuplicate, MenuAddComment, del}}
}

func (e *Editor) runMenuItem(item string) {
	m := e.menu
	e.menu = nil
	switch {
	case item == MenuDuplicate:
		e.selected = e.addBlock(m.block.workspace, m.block.Type, m.block.X+20, m.block.Y+20)
	case strings.HasPrefix(item, "Delete"):
		e.deleteBlock(m.block)
	}
}

func (e *Editor) deleteBlock(b *Block) {
	doomed := descendants(b)
	ws := b.workspace
	kept := ws.blocks[:0]
	for _, x := range ws.blocks {
		if !contains(doomed, x) {
			kept = append(kept, x)
		}
	}
	ws.blocks = kept
	if contains(doomed, e.selected) {
		e.selected = nil
	}
	delete(e.mutators, b.ID)
}

type rect struct {
	x, y, w, h float64
}

func (r rect) contains(x, y float64) bool {
	return x >= r.x && x <= r.x+r.w && y >= r.y && y <= r.y+r.h
}
