package harness

import (
	"context"
	"fmt"

	"github.com/entrhq/blockdrive/pkg/editor"
)

// WorkspaceInspector reads editor state back as flat projections.
type WorkspaceInspector struct {
	s *Session
}

// SelectedID returns the id of the selected block, or "" when nothing is
// selected.
func (i *WorkspaceInspector) SelectedID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var id string
	if err := i.s.execute("SelectedID", editor.QuerySelectedID, nil, &id); err != nil {
		return "", err
	}
	return id, nil
}

// SelectedElement returns the element of the selected block.
func (i *WorkspaceInspector) SelectedElement(ctx context.Context) (ElementHandle, error) {
	id, err := i.SelectedID(ctx)
	if err != nil {
		return ElementHandle{}, err
	}
	if id == "" {
		return ElementHandle{}, notFound("SelectedElement", "selected block", fmt.Errorf("nothing is selected"))
	}
	return i.s.Locator().ResolveByID(ctx, id)
}

// AllBlocks returns every block on the main workspace, nested ones included,
// in the editor's order.
func (i *WorkspaceInspector) AllBlocks(ctx context.Context) ([]BlockInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var summaries []editor.BlockSummary
	if err := i.s.execute("AllBlocks", editor.QueryAllBlocks, nil, &summaries); err != nil {
		return nil, err
	}

	blocks := make([]BlockInfo, 0, len(summaries))
	for _, b := range summaries {
		blocks = append(blocks, BlockInfo{Type: b.Type, ID: b.ID})
	}
	return blocks, nil
}

// BlockCount returns the number of blocks on the main workspace.
func (i *WorkspaceInspector) BlockCount(ctx context.Context) (int, error) {
	blocks, err := i.AllBlocks(ctx)
	if err != nil {
		return 0, err
	}
	return len(blocks), nil
}

// ConnectionTarget returns the connection on the far side of conn, and false
// when conn is not connected.
func (i *WorkspaceInspector) ConnectionTarget(ctx context.Context, blockID string, conn Connection, opts ...Option) (ConnectionRef, bool, error) {
	const op = "ConnectionTarget"

	o := applyOptions(opts)
	subject := ConnectionRef{BlockID: blockID, Connection: conn}.String()
	if blockID == "" {
		return ConnectionRef{}, false, resolutionError(op, subject, fmt.Errorf("empty block id"))
	}
	args, err := conn.wire(blockID, o.mutator)
	if err != nil {
		return ConnectionRef{}, false, resolutionError(op, subject, err)
	}
	if err := ctx.Err(); err != nil {
		return ConnectionRef{}, false, err
	}

	var target editor.ConnectionTarget
	if err := i.s.execute(op, editor.QueryConnectionTarget, args.Map(), &target); err != nil {
		return ConnectionRef{}, false, err
	}
	if target.Error != "" {
		return ConnectionRef{}, false, resolutionError(op, subject, describeResolution(target.Error, o.mutator))
	}
	if !target.Connected {
		return ConnectionRef{}, false, nil
	}

	other, err := connectionFromWire(target.Kind, target.Name)
	if err != nil {
		return ConnectionRef{}, false, resolutionError(op, subject, err)
	}
	return ConnectionRef{BlockID: target.BlockID, Connection: other}, true, nil
}

// Direction reports whether the main workspace renders left-to-right or
// right-to-left.
func (i *WorkspaceInspector) Direction(ctx context.Context) (ScreenDirection, error) {
	if err := ctx.Err(); err != nil {
		return LTR, err
	}
	var rtl bool
	if err := i.s.execute("Direction", editor.QueryIsRTL, nil, &rtl); err != nil {
		return LTR, err
	}
	if rtl {
		return RTL, nil
	}
	return LTR, nil
}
