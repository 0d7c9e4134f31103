package harness

import (
	"context"
	"testing"

	"github.com/entrhq/blockdrive/pkg/remote/remotetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointOf(t *testing.T) {
	ed := remotetest.Playground()
	row := ed.AddBlock(remotetest.BasicRow, 40, 60)
	value := ed.AddBlock(remotetest.BasicValue, 200, 100)
	s := openEditor(t, ed)
	ctx := context.Background()

	tests := []struct {
		name  string
		id    string
		conn  Connection
		slot  remotetest.Slot
		wantX float64
		wantY float64
	}{
		{"output", row, Output, remotetest.Slot{Kind: "output"}, 340, 140},
		{"previous", value, Previous, remotetest.Slot{Kind: "previous"}, 500, 180},
		{"next", value, Next, remotetest.Slot{Kind: "next"}, 500, 220},
		{"input", value, Input("VALUE"), remotetest.Slot{Kind: "input", Name: "VALUE"}, 640, 190},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.Geometry().PointOf(ctx, tt.id, tt.conn)
			require.NoError(t, err)
			assert.Equal(t, Point{X: tt.wantX, Y: tt.wantY}, p)

			x, y, err := ed.ConnectionPoint(tt.id, tt.slot)
			require.NoError(t, err)
			assert.Equal(t, Point{X: x, Y: y}, p)
		})
	}
}

func TestPointOfFollowsViewTransform(t *testing.T) {
	ed := remotetest.Playground()
	value := ed.AddBlock(remotetest.BasicValue, 200, 100)
	s := openEditor(t, ed)
	ctx := context.Background()

	before, err := s.Geometry().PointOf(ctx, value, Input("VALUE"))
	require.NoError(t, err)

	ed.SetScroll(50, 20)
	ed.SetScale(2)

	after, err := s.Geometry().PointOf(ctx, value, Input("VALUE"))
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	// (340 - 50) * 2 + 300, (110 - 20) * 2 + 80
	assert.Equal(t, Point{X: 880, Y: 260}, after)
}

func TestPointOfResolutionErrors(t *testing.T) {
	ed := remotetest.Playground()
	row := ed.AddBlock(remotetest.BasicRow, 0, 0)
	s := openEditor(t, ed)
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		conn Connection
		opts []Option
		msg  string
	}{
		{"missing block", "nope", Output, nil, "no such block"},
		{"missing input", row, Input("VALUE"), nil, "no such input"},
		{"missing connection", row, Previous, nil, "no such connection"},
		{"empty id", "", Output, nil, "empty block id"},
		{"invalid connection", row, Connection{}, nil, "invalid connection"},
		{"missing mutator owner", row, Output, []Option{InMutator("ghost")}, "no mutator owner block ghost"},
		{"closed mutator", row, Output, []Option{InMutator(row)}, "has no open mutator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Geometry().PointOf(ctx, tt.id, tt.conn, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrResolution)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestPointOfInMutator(t *testing.T) {
	ed := remotetest.Playground()
	owner := ed.AddBlock(remotetest.ListsCreate, 0, 0)
	container, err := ed.AddMutatorBlock(owner, remotetest.ListsContainer, 400, 300)
	require.NoError(t, err)
	s := openEditor(t, ed)
	ctx := context.Background()

	p, err := s.Geometry().PointOf(ctx, container, Input("STACK"), InMutator(owner))
	require.NoError(t, err)

	x, y, err := ed.ConnectionPoint(container, remotetest.Slot{Kind: "input", Name: "STACK"})
	require.NoError(t, err)
	assert.Equal(t, Point{X: x, Y: y}, p)

	// Without the mutator option the block is not on the main workspace
	_, err = s.Geometry().PointOf(ctx, container, Input("STACK"))
	assert.ErrorIs(t, err, ErrResolution)
}
