package harness

import (
	"fmt"

	"github.com/entrhq/blockdrive/pkg/remote"
)

// Point is a position in screen (viewport) space.
type Point struct {
	X float64
	Y float64
}

// Sub returns the delta that moves q onto p.
func (p Point) Sub(q Point) Delta {
	return Delta{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p moved by d.
func (p Point) Add(d Delta) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// Delta is a relative pointer movement in screen space.
type Delta struct {
	X float64
	Y float64
}

func (d Delta) String() string {
	return fmt.Sprintf("(%+.1f, %+.1f)", d.X, d.Y)
}

// ScreenDirection is the horizontal sense of the workspace: 1 for
// left-to-right, -1 for right-to-left.
type ScreenDirection int

const (
	LTR ScreenDirection = 1
	RTL ScreenDirection = -1
)

// Apply mirrors the horizontal part of d for right-to-left workspaces.
func (s ScreenDirection) Apply(d Delta) Delta {
	if s == RTL {
		return Delta{X: -d.X, Y: d.Y}
	}
	return d
}

func (s ScreenDirection) String() string {
	if s == RTL {
		return "rtl"
	}
	return "ltr"
}

// BlockInfo is the flat identity of a block.
type BlockInfo struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ConnectionRef names one connection of one block.
type ConnectionRef struct {
	BlockID    string
	Connection Connection
}

func (r ConnectionRef) String() string {
	return fmt.Sprintf("%s.%s", r.BlockID, r.Connection)
}

// ElementHandle is a lazy reference to a rendered element. Handles for blocks
// carry the block's id.
type ElementHandle struct {
	el      remote.Element
	blockID string
}

// NewElementHandle wraps el, tagging it with blockID ("" for chrome).
func NewElementHandle(el remote.Element, blockID string) ElementHandle {
	return ElementHandle{el: el, blockID: blockID}
}

// BlockID returns the id of the block the element renders, or "".
func (h ElementHandle) BlockID() string {
	return h.blockID
}

// Element returns the underlying remote element.
func (h ElementHandle) Element() remote.Element {
	return h.el
}

// Valid reports whether the handle refers to anything.
func (h ElementHandle) Valid() bool {
	return h.el != nil
}

// Center returns the centre of the element's bounding box.
func (h ElementHandle) Center() (Point, error) {
	if h.el == nil {
		return Point{}, fmt.Errorf("empty element handle")
	}
	box, err := h.el.BoundingBox()
	if err != nil {
		return Point{}, err
	}
	x, y := box.Center()
	return Point{X: x, Y: y}, nil
}
