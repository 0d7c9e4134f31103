package harness

import (
	"context"
	"fmt"

	"github.com/entrhq/blockdrive/pkg/editor"
)

// Option adjusts a geometry or connect request.
type Option func(*options)

type options struct {
	mutator string
	origin  ElementHandle
}

// InMutator resolves blocks inside the mutator workspace of the block with
// ownerID instead of the main workspace.
func InMutator(ownerID string) Option {
	return func(o *options) {
		o.mutator = ownerID
	}
}

// DragOrigin makes ConnectByDrag press on el rather than on the dragged
// block's own element. Mutator blocks are usually dragged this way.
func DragOrigin(el ElementHandle) Option {
	return func(o *options) {
		o.origin = el
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ConnectionGeometry computes where connection points are drawn.
type ConnectionGeometry struct {
	s *Session
}

// PointOf returns the screen position of conn on the block with blockID.
//
// The block's position on its surface and the connection's offset within the
// block are summed in workspace units, then converted to screen space through
// the main workspace's current pan, zoom and scroll. Mutator blocks are
// converted through the main workspace too.
func (g *ConnectionGeometry) PointOf(ctx context.Context, blockID string, conn Connection, opts ...Option) (Point, error) {
	const op = "PointOf"

	o := applyOptions(opts)
	subject := ConnectionRef{BlockID: blockID, Connection: conn}.String()
	if blockID == "" {
		return Point{}, resolutionError(op, subject, fmt.Errorf("empty block id"))
	}
	args, err := conn.wire(blockID, o.mutator)
	if err != nil {
		return Point{}, resolutionError(op, subject, err)
	}
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}

	var geom editor.ConnectionGeometry
	if err := g.s.execute(op, editor.QueryConnectionGeometry, args.Map(), &geom); err != nil {
		return Point{}, err
	}
	if geom.Error != "" {
		return Point{}, resolutionError(op, subject, describeResolution(geom.Error, o.mutator))
	}

	ws := editor.Coordinate{
		X: geom.Block.X + geom.Offset.X,
		Y: geom.Block.Y + geom.Offset.Y,
	}

	var screen editor.Coordinate
	if err := g.s.execute(op, editor.QueryWorkspaceToScreen, map[string]interface{}{"x": ws.X, "y": ws.Y}, &screen); err != nil {
		return Point{}, err
	}

	p := Point{X: screen.X, Y: screen.Y}
	g.s.logger.Debugf("%s is at %s", subject, p)
	return p, nil
}

func describeResolution(code, mutator string) error {
	switch code {
	case editor.ErrCodeNoMutatorBlock:
		return fmt.Errorf("no mutator owner block %s", mutator)
	case editor.ErrCodeNoMutatorWorkspace:
		return fmt.Errorf("block %s has no open mutator", mutator)
	case editor.ErrCodeNoBlock:
		return fmt.Errorf("no such block")
	case editor.ErrCodeNoInput:
		return fmt.Errorf("no such input")
	case editor.ErrCodeNoConnection:
		return fmt.Errorf("block has no such connection")
	case editor.ErrCodeBadKind:
		return fmt.Errorf("unknown connection kind")
	}
	return fmt.Errorf("%s", code)
}
