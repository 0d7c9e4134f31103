package harness

import (
	"context"
	"fmt"

	"github.com/entrhq/blockdrive/pkg/editor"
	"github.com/entrhq/blockdrive/pkg/remote"
)

// ElementLocator resolves editor chrome and blocks to elements.
type ElementLocator struct {
	s *Session
}

// Query returns an untagged handle for an arbitrary selector. Nothing is
// resolved until the handle is used.
func (l *ElementLocator) Query(selector string) (ElementHandle, error) {
	b, err := l.s.remote("Query")
	if err != nil {
		return ElementHandle{}, err
	}
	return NewElementHandle(b.Query(selector), ""), nil
}

// FindCategory waits for the toolbox category whose label contains name and
// returns the first match.
func (l *ElementLocator) FindCategory(ctx context.Context, name string) (ElementHandle, error) {
	const op = "FindCategory"

	b, err := l.s.remote(op)
	if err != nil {
		return ElementHandle{}, err
	}

	sel := editor.CategorySelector(name)
	if err := l.waitExists(ctx, op, fmt.Sprintf("category %q", name), sel); err != nil {
		return ElementHandle{}, err
	}
	l.s.logger.Debugf("Found category %q", name)
	return NewElementHandle(b.Query(sel).Nth(0), ""), nil
}

// FindNthBlockInCategory opens category and returns the n-th (0-indexed)
// block of its flyout. Positions follow the flyout's rendered layout; prefer
// FindBlockByTypeInCategory when the block type is known.
func (l *ElementLocator) FindNthBlockInCategory(ctx context.Context, category ElementHandle, n int) (ElementHandle, error) {
	const op = "FindNthBlockInCategory"

	subject := fmt.Sprintf("flyout block #%d", n)
	if n < 0 {
		return ElementHandle{}, notFound(op, subject, fmt.Errorf("negative index"))
	}
	if !category.Valid() {
		return ElementHandle{}, notFound(op, subject, fmt.Errorf("no category"))
	}

	b, err := l.s.remote(op)
	if err != nil {
		return ElementHandle{}, err
	}
	if err := category.Element().Click(remote.ButtonLeft); err != nil {
		return ElementHandle{}, fmt.Errorf("failed to open category: %w", err)
	}

	sel := editor.FlyoutSlotSelector(n)
	if err := l.waitExists(ctx, op, subject, sel); err != nil {
		return ElementHandle{}, err
	}
	return NewElementHandle(b.Query(sel), ""), nil
}

// FindBlockByTypeInCategory returns the first flyout block of blockType. An
// empty categoryName searches a toolbox without categories, whose flyout is
// always open.
func (l *ElementLocator) FindBlockByTypeInCategory(ctx context.Context, categoryName, blockType string) (ElementHandle, error) {
	const op = "FindBlockByTypeInCategory"

	if categoryName != "" {
		category, err := l.FindCategory(ctx, categoryName)
		if err != nil {
			return ElementHandle{}, err
		}
		if err := category.Element().Click(remote.ButtonLeft); err != nil {
			return ElementHandle{}, fmt.Errorf("failed to open category: %w", err)
		}
	}

	subject := fmt.Sprintf("flyout block of type %q", blockType)
	var id string
	err := Poll(ctx, func(ctx context.Context) error {
		if err := l.s.execute(op, editor.QueryFlyoutBlockID, map[string]interface{}{"type": blockType}, &id); err != nil {
			return PollBreak(err)
		}
		if id == "" {
			return notFound(op, subject, nil)
		}
		return nil
	}, l.s.pollOptions())
	if err != nil {
		return ElementHandle{}, err
	}

	return l.ResolveByID(ctx, id)
}

// FindBlockByTypeOnMainSurface returns the ordinal-th (0-indexed) block of
// blockType on the main workspace, counting nested blocks.
func (l *ElementLocator) FindBlockByTypeOnMainSurface(ctx context.Context, blockType string, ordinal int) (ElementHandle, error) {
	const op = "FindBlockByTypeOnMainSurface"

	if err := ctx.Err(); err != nil {
		return ElementHandle{}, err
	}

	var found editor.SurfaceLookup
	args := map[string]interface{}{"type": blockType, "ordinal": ordinal}
	if err := l.s.execute(op, editor.QuerySurfaceBlock, args, &found); err != nil {
		return ElementHandle{}, err
	}
	if found.ID == "" {
		return ElementHandle{}, notFound(op,
			fmt.Sprintf("block %q #%d", blockType, ordinal),
			fmt.Errorf("workspace has %d", found.Count))
	}
	return l.ResolveByID(ctx, found.ID)
}

// ResolveByID returns the rendered element of the block with id, tagged with
// that id.
func (l *ElementLocator) ResolveByID(ctx context.Context, id string) (ElementHandle, error) {
	const op = "ResolveByID"

	if id == "" {
		return ElementHandle{}, resolutionError(op, "block", fmt.Errorf("empty block id"))
	}
	if err := ctx.Err(); err != nil {
		return ElementHandle{}, err
	}

	b, err := l.s.remote(op)
	if err != nil {
		return ElementHandle{}, err
	}

	el := b.Query(editor.BlockSelector(id))
	n, err := el.Count()
	if err != nil {
		return ElementHandle{}, err
	}
	if n == 0 {
		return ElementHandle{}, notFound(op, fmt.Sprintf("block %s", id), nil)
	}
	return NewElementHandle(el, id), nil
}

// waitExists polls until sel matches at least one element.
func (l *ElementLocator) waitExists(ctx context.Context, op, subject, sel string) error {
	b, err := l.s.remote(op)
	if err != nil {
		return err
	}
	return Poll(ctx, func(ctx context.Context) error {
		n, err := b.Query(sel).Count()
		if err != nil {
			return PollBreak(err)
		}
		if n == 0 {
			return notFound(op, subject, nil)
		}
		return nil
	}, l.s.pollOptions())
}
