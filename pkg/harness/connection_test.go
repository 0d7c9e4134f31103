package harness

import (
	"testing"

	"github.com/entrhq/blockdrive/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnection(t *testing.T) {
	tests := []struct {
		in      string
		want    Connection
		wantErr bool
	}{
		{in: "OUTPUT", want: Output},
		{in: "PREVIOUS", want: Previous},
		{in: "NEXT", want: Next},
		{in: "VALUE", want: Input("VALUE")},
		{in: "output", want: Input("output")},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseConnection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestConnectionWire(t *testing.T) {
	args, err := Input("VALUE").wire("b1", "m1")
	require.NoError(t, err)
	assert.Equal(t, editor.ConnectionArgs{ID: "b1", Kind: "input", Name: "VALUE", Mutator: "m1"}, args)

	args, err = Next.wire("b1", "")
	require.NoError(t, err)
	assert.Equal(t, editor.ConnectionArgs{ID: "b1", Kind: "next"}, args)

	_, err = Input("").wire("b1", "")
	assert.Error(t, err)

	_, err = Connection{}.wire("b1", "")
	assert.Error(t, err)
	assert.Equal(t, "<invalid>", Connection{}.String())
}

func TestConnectionFromWire(t *testing.T) {
	for _, c := range []Connection{Output, Previous, Next, Input("STACK")} {
		args, err := c.wire("b", "")
		require.NoError(t, err)
		back, err := connectionFromWire(args.Kind, args.Name)
		require.NoError(t, err)
		assert.Equal(t, c, back)
	}

	_, err := connectionFromWire("sideways", "")
	assert.Error(t, err)
}

func TestPointArithmetic(t *testing.T) {
	a := Point{X: 10, Y: 20}
	b := Point{X: 4, Y: 25}

	d := a.Sub(b)
	assert.Equal(t, Delta{X: 6, Y: -5}, d)
	assert.Equal(t, a, b.Add(d))
}

func TestScreenDirection(t *testing.T) {
	d := Delta{X: 250, Y: 50}
	assert.Equal(t, d, LTR.Apply(d))
	assert.Equal(t, Delta{X: -250, Y: 50}, RTL.Apply(d))
	assert.Equal(t, "rtl", RTL.String())
}
