package harness

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargets(t *testing.T) {
	targets := NewTargets("/src/blockly")

	assert.Equal(t, "file:///src/blockly/demos/blockfactory/index.html", targets.BlockFactory())
	assert.Equal(t, "file:///src/blockly/demos/code/index.html", targets.CodeDemo())
	assert.Equal(t, "file:///src/blockly/tests/playground.html", targets.Playground(""))
	assert.Equal(t, "file:///src/blockly/tests/playground.html?toolbox=test-blocks", targets.Playground("test-blocks"))
}

func TestTargetsRelativeRoot(t *testing.T) {
	targets := NewTargets("blockly")
	assert.Equal(t, "file:///blockly/tests/playground.html", targets.Playground(""))
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("no such input")
	err := fmt.Errorf("connect: %w", resolutionError("PointOf", "b1.VALUE", cause))

	assert.ErrorIs(t, err, ErrResolution)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrSession)
	assert.EqualError(t, err, "connect: PointOf: resolution: b1.VALUE: no such input")

	var herr *Error
	assert.True(t, errors.As(err, &herr))
	assert.Equal(t, KindResolution, herr.Kind)

	assert.True(t, IsNotFound(notFound("FindCategory", "", nil)))
	assert.EqualError(t, notFound("FindCategory", "", nil), "FindCategory: not found")
}
