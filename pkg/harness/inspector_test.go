package harness

import (
	"context"
	"testing"

	"github.com/entrhq/blockdrive/pkg/editor"
	"github.com/entrhq/blockdrive/pkg/remote/remotetest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllBlocksIsIdempotent(t *testing.T) {
	ed := remotetest.Playground()
	a := ed.AddBlock(remotetest.BasicRow, 0, 0)
	b := ed.AddBlock(remotetest.BasicValue, 200, 0)
	require.NoError(t, ed.Connect(a, b, remotetest.Slot{Kind: "input", Name: "VALUE"}))
	s := openEditor(t, ed)
	ctx := context.Background()

	first, err := s.Inspector().AllBlocks(ctx)
	require.NoError(t, err)
	second, err := s.Inspector().AllBlocks(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("AllBlocks() changed without a gesture (-first +second):\n%s", diff)
	}
	assert.Equal(t, []BlockInfo{
		{Type: "test_basic_row", ID: a},
		{Type: "test_basic_value_to_stack", ID: b},
	}, first)
	assert.Equal(t, 2, ed.Executions(string(editor.QueryAllBlocks)))
}

func TestAllBlocksEmptyWorkspace(t *testing.T) {
	s := openEditor(t, remotetest.Playground())

	blocks, err := s.Inspector().AllBlocks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, blocks)
	assert.NotNil(t, blocks)
}

func TestSelection(t *testing.T) {
	ed := remotetest.Playground()
	id := ed.AddBlock(remotetest.BasicRow, 0, 0)
	s := openEditor(t, ed)
	ctx := context.Background()

	selected, err := s.Inspector().SelectedID(ctx)
	require.NoError(t, err)
	assert.Empty(t, selected)

	_, err = s.Inspector().SelectedElement(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	ed.Select(id)

	selected, err = s.Inspector().SelectedID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, selected)

	el, err := s.Inspector().SelectedElement(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, el.BlockID())
}

func TestConnectionTargetUnconnected(t *testing.T) {
	ed := remotetest.Playground()
	id := ed.AddBlock(remotetest.BasicValue, 0, 0)
	s := openEditor(t, ed)
	ctx := context.Background()

	for _, conn := range []Connection{Previous, Next, Input("VALUE")} {
		_, ok, err := s.Inspector().ConnectionTarget(ctx, id, conn)
		require.NoError(t, err)
		assert.False(t, ok, conn.String())
	}

	_, _, err := s.Inspector().ConnectionTarget(ctx, id, Output)
	assert.ErrorIs(t, err, ErrResolution)
}

func TestConnectionTargetStatement(t *testing.T) {
	ed := remotetest.Playground()
	top := ed.AddBlock(remotetest.BasicValue, 0, 0)
	below := ed.AddBlock(remotetest.BasicEmpty, 0, 300)
	require.NoError(t, ed.Connect(below, top, remotetest.Slot{Kind: "next"}))
	s := openEditor(t, ed)
	ctx := context.Background()

	target, ok, err := s.Inspector().ConnectionTarget(ctx, top, Next)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ConnectionRef{BlockID: below, Connection: Previous}, target)

	target, ok, err = s.Inspector().ConnectionTarget(ctx, below, Previous)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ConnectionRef{BlockID: top, Connection: Next}, target)
}
