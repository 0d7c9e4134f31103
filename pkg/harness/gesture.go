package harness

import (
	"context"
	"fmt"

	"github.com/entrhq/blockdrive/pkg/editor"
	"github.com/entrhq/blockdrive/pkg/remote"
)

// GestureSimulator performs pointer gestures on the editor.
type GestureSimulator struct {
	s         *Session
	locator   *ElementLocator
	inspector *WorkspaceInspector
}

// Drag presses on the centre of el, moves the pointer by delta and releases.
func (g *GestureSimulator) Drag(ctx context.Context, el ElementHandle, delta Delta) error {
	const op = "Drag"

	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := g.s.remote(op)
	if err != nil {
		return err
	}

	start, err := el.Center()
	if err != nil {
		return fmt.Errorf("failed to locate drag origin: %w", err)
	}
	end := start.Add(delta)
	g.s.logger.Debugf("Dragging %s from %s by %s", describe(el), start, delta)

	mouse := b.Mouse()
	if err := mouse.Move(start.X, start.Y, 1); err != nil {
		return fmt.Errorf("pointer move failed: %w", err)
	}
	if err := mouse.Down(); err != nil {
		return fmt.Errorf("pointer press failed: %w", err)
	}
	if err := mouse.Move(end.X, end.Y, g.s.cfg.Gesture.Steps); err != nil {
		return fmt.Errorf("pointer move failed: %w", err)
	}
	if err := mouse.Up(); err != nil {
		return fmt.Errorf("pointer release failed: %w", err)
	}
	return nil
}

// DragFromFlyout drags a flyout block by delta and returns the block the drop
// created, once the editor has selected it.
func (g *GestureSimulator) DragFromFlyout(ctx context.Context, el ElementHandle, delta Delta) (ElementHandle, error) {
	const op = "DragFromFlyout"

	before, err := g.inspector.SelectedID(ctx)
	if err != nil {
		return ElementHandle{}, err
	}
	if err := g.Drag(ctx, el, delta); err != nil {
		return ElementHandle{}, err
	}

	var created string
	err = Poll(ctx, func(ctx context.Context) error {
		id, err := g.inspector.SelectedID(ctx)
		if err != nil {
			return PollBreak(err)
		}
		if id == "" || id == before {
			return notFound(op, "new block", fmt.Errorf("selection did not change"))
		}
		created = id
		return nil
	}, g.s.pollOptions())
	if err != nil {
		return ElementHandle{}, err
	}

	g.s.logger.Debugf("Flyout drag created block %s", created)
	return g.locator.ResolveByID(ctx, created)
}

// DragBlockFromFlyout drags the first blockType block of a category's flyout
// by delta and returns the new block. An empty category uses the flat flyout.
func (g *GestureSimulator) DragBlockFromFlyout(ctx context.Context, category, blockType string, delta Delta) (ElementHandle, error) {
	el, err := g.locator.FindBlockByTypeInCategory(ctx, category, blockType)
	if err != nil {
		return ElementHandle{}, err
	}
	return g.DragFromFlyout(ctx, el, delta)
}

// DragNthBlockFromFlyout drags the n-th block of a category's flyout by delta
// and returns the new block.
func (g *GestureSimulator) DragNthBlockFromFlyout(ctx context.Context, category string, n int, delta Delta) (ElementHandle, error) {
	cat, err := g.locator.FindCategory(ctx, category)
	if err != nil {
		return ElementHandle{}, err
	}
	el, err := g.locator.FindNthBlockInCategory(ctx, cat, n)
	if err != nil {
		return ElementHandle{}, err
	}
	return g.DragFromFlyout(ctx, el, delta)
}

// ConnectByDrag drags dragged so that its draggedConn lands on targetConn of
// target, leaving the editor to snap them together. With InMutator both blocks
// are looked up in that mutator's workspace; DragOrigin overrides the element
// that is dragged.
func (g *GestureSimulator) ConnectByDrag(ctx context.Context, dragged ElementHandle, draggedConn Connection, target ElementHandle, targetConn Connection, opts ...Option) error {
	const op = "ConnectByDrag"

	o := applyOptions(opts)
	if dragged.BlockID() == "" {
		return resolutionError(op, "dragged block", fmt.Errorf("element has no block id"))
	}
	if target.BlockID() == "" {
		return resolutionError(op, "target block", fmt.Errorf("element has no block id"))
	}

	geometry := g.s.Geometry()
	from, err := geometry.PointOf(ctx, dragged.BlockID(), draggedConn, opts...)
	if err != nil {
		return err
	}
	to, err := geometry.PointOf(ctx, target.BlockID(), targetConn, opts...)
	if err != nil {
		return err
	}

	origin := dragged
	if o.origin.Valid() {
		origin = o.origin
	}

	g.s.logger.Debugf("Connecting %s.%s to %s.%s", dragged.BlockID(), draggedConn, target.BlockID(), targetConn)
	return g.Drag(ctx, origin, to.Sub(from))
}

// RightClickAndSelect opens the context menu of block and clicks the entry
// whose text is exactly itemText, then waits for the menu to close. The block
// must show text; its first text element is the click target.
func (g *GestureSimulator) RightClickAndSelect(ctx context.Context, block ElementHandle, itemText string) error {
	const op = "RightClickAndSelect"

	if !block.Valid() {
		return notFound(op, "block", fmt.Errorf("empty element handle"))
	}
	b, err := g.s.remote(op)
	if err != nil {
		return err
	}

	text := block.Element().Query(editor.BlockTextSelector).Nth(0)
	if err := g.waitCount(ctx, op, "block text", text, true); err != nil {
		return err
	}
	if err := text.Click(remote.ButtonRight); err != nil {
		return fmt.Errorf("right click failed: %w", err)
	}

	subject := fmt.Sprintf("menu item %q", itemText)
	item := b.Query(editor.MenuItemSelector(itemText))
	if err := g.waitCount(ctx, op, subject, item, true); err != nil {
		return err
	}
	if err := item.Click(remote.ButtonLeft); err != nil {
		return fmt.Errorf("failed to click %s: %w", subject, err)
	}

	g.s.logger.Debugf("Selected %s on %s", subject, describe(block))
	return g.waitCount(ctx, op, subject, item, false)
}

// SwitchRTL flips the playground to right-to-left rendering and waits until
// the workspace reports it.
func (g *GestureSimulator) SwitchRTL(ctx context.Context) error {
	const op = "SwitchRTL"

	b, err := g.s.remote(op)
	if err != nil {
		return err
	}
	if err := b.Query(editor.DirectionSelector).SelectIndex(1); err != nil {
		return fmt.Errorf("failed to switch direction: %w", err)
	}

	return Poll(ctx, func(ctx context.Context) error {
		dir, err := g.inspector.Direction(ctx)
		if err != nil {
			return PollBreak(err)
		}
		if dir != RTL {
			return fmt.Errorf("workspace still renders %s", dir)
		}
		return nil
	}, g.s.pollOptions())
}

// waitCount polls until el is present (or absent, when present is false).
func (g *GestureSimulator) waitCount(ctx context.Context, op, subject string, el remote.Element, present bool) error {
	return Poll(ctx, func(ctx context.Context) error {
		n, err := el.Count()
		if err != nil {
			return PollBreak(err)
		}
		switch {
		case present && n == 0:
			return notFound(op, subject, nil)
		case !present && n > 0:
			return fmt.Errorf("%s still showing", subject)
		}
		return nil
	}, g.s.pollOptions())
}

func describe(el ElementHandle) string {
	if id := el.BlockID(); id != "" {
		return "block " + id
	}
	return "element"
}
