// Package editor holds the contract between the harness and the editor document
// it drives: the scripts executed against live editor state, the DOM selectors the
// editor's rendering exposes, and the flat wire shapes both sides exchange.
//
// Any editor exposing a Blockly-compatible global (Blockly.getMainWorkspace,
// Blockly.common.getSelected, Blockly.utils.svgMath.wsToScreenCoordinates) can be
// driven unchanged. Every query returns plain JSON values; live editor objects
// reference their workspace and neighbours cyclically and never cross the boundary.
package editor

import (
	"encoding/json"
	"fmt"
)

// Query is a script evaluated in the remote document. Each query is a function
// expression taking a single argument object.
type Query string

// resolveConnection is shared by the connection queries. It leaves `block` and
// `connection` bound, or returns an {error} object.
const resolveConnection = `
  let workspace = Blockly.getMainWorkspace();
  if (args.mutator) {
    const owner = workspace.getBlockById(args.mutator);
    if (!owner) return {error: 'no_mutator_block'};
    const mutator = owner.mutator;
    if (!mutator || !mutator.getWorkspace()) return {error: 'no_mutator_workspace'};
    workspace = mutator.getWorkspace();
  }
  const block = workspace.getBlockById(args.id);
  if (!block) return {error: 'no_block'};
  let connection = null;
  switch (args.kind) {
    case 'output':
      connection = block.outputConnection;
      break;
    case 'previous':
      connection = block.previousConnection;
      break;
    case 'next':
      connection = block.nextConnection;
      break;
    case 'input': {
      const input = block.getInput(args.name);
      if (!input) return {error: 'no_input'};
      connection = input.connection;
      break;
    }
    default:
      return {error: 'bad_kind'};
  }
  if (!connection) return {error: 'no_connection'};
`

const (
	// QuerySelectedID returns the id of the selected block, or "".
	QuerySelectedID Query = `() => {
  const selected = Blockly.common.getSelected();
  return selected && selected.id ? selected.id : '';
}`

	// QueryFlyoutBlockID returns the id of the first block of args.type in the
	// flyout's own workspace, or "" when the flyout holds none.
	QueryFlyoutBlockID Query = `(args) => {
  const flyout = Blockly.getMainWorkspace().getFlyout();
  if (!flyout || !flyout.getWorkspace()) return '';
  const blocks = flyout.getWorkspace().getBlocksByType(args.type);
  return blocks.length ? blocks[0].id : '';
}`

	// QuerySurfaceBlock returns a SurfaceLookup for the args.ordinal-th block of
	// args.type on the main workspace, nested blocks included.
	QuerySurfaceBlock Query = `(args) => {
  const blocks = Blockly.getMainWorkspace().getBlocksByType(args.type, true);
  const found = args.ordinal >= 0 && args.ordinal < blocks.length;
  return {id: found ? blocks[args.ordinal].id : '', count: blocks.length};
}`

	// QueryAllBlocks returns a BlockSummary for every block on the main workspace.
	QueryAllBlocks Query = `() => Blockly.getMainWorkspace()
  .getAllBlocks(false)
  .map((block) => ({type: block.type, id: block.id}))`

	// QueryConnectionGeometry returns a ConnectionGeometry for ConnectionArgs.
	QueryConnectionGeometry Query = `(args) => {` + resolveConnection + `
  const xy = block.getRelativeToSurfaceXY();
  const offset = connection.getOffsetInBlock();
  return {block: {x: xy.x, y: xy.y}, offset: {x: offset.x, y: offset.y}};
}`

	// QueryConnectionTarget returns a ConnectionTarget for ConnectionArgs.
	QueryConnectionTarget Query = `(args) => {` + resolveConnection + `
  const target = connection.targetConnection;
  if (!target) return {connected: false};
  const other = target.getSourceBlock();
  let kind = 'input';
  let name = '';
  if (target === other.outputConnection) {
    kind = 'output';
  } else if (target === other.previousConnection) {
    kind = 'previous';
  } else if (target === other.nextConnection) {
    kind = 'next';
  } else {
    const input = other.inputList.find((i) => i.connection === target);
    name = input ? input.name : '';
  }
  return {connected: true, blockId: other.id, kind: kind, name: name};
}`

	// QueryWorkspaceToScreen converts a main-workspace Coordinate to screen space
	// through the workspace's current pan, zoom and scroll.
	QueryWorkspaceToScreen Query = `(args) => {
  const point = Blockly.utils.svgMath.wsToScreenCoordinates(
    Blockly.getMainWorkspace(),
    new Blockly.utils.Coordinate(args.x, args.y),
  );
  return {x: point.x, y: point.y};
}`

	// QueryIsRTL reports whether the main workspace renders right-to-left.
	QueryIsRTL Query = `() => !!Blockly.getMainWorkspace().RTL`
)

// Error codes returned in the error field of connection queries.
const (
	ErrCodeNoMutatorBlock     = "no_mutator_block"
	ErrCodeNoMutatorWorkspace = "no_mutator_workspace"
	ErrCodeNoBlock            = "no_block"
	ErrCodeNoInput            = "no_input"
	ErrCodeNoConnection       = "no_connection"
	ErrCodeBadKind            = "bad_kind"
)

// Connection kinds as spelled on the wire.
const (
	KindOutput   = "output"
	KindPrevious = "previous"
	KindNext     = "next"
	KindInput    = "input"
)

// Coordinate is a 2D point in either workspace or screen space.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BlockSummary is the flat identity of one block.
type BlockSummary struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// SurfaceLookup is the result of QuerySurfaceBlock.
type SurfaceLookup struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// ConnectionArgs addresses one connection of one block.
type ConnectionArgs struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Name    string `json:"name,omitempty"`
	Mutator string `json:"mutator,omitempty"`
}

// Map returns the args as the argument object passed to a query.
func (a ConnectionArgs) Map() map[string]interface{} {
	m := map[string]interface{}{
		"id":   a.ID,
		"kind": a.Kind,
	}
	if a.Name != "" {
		m["name"] = a.Name
	}
	if a.Mutator != "" {
		m["mutator"] = a.Mutator
	}
	return m
}

// ConnectionGeometry is the result of QueryConnectionGeometry. Block is the
// block's position relative to its surface; Offset is the connection's position
// inside the block.
type ConnectionGeometry struct {
	Block  Coordinate `json:"block"`
	Offset Coordinate `json:"offset"`
	Error  string     `json:"error,omitempty"`
}

// ConnectionTarget is the result of QueryConnectionTarget.
type ConnectionTarget struct {
	Connected bool   `json:"connected"`
	BlockID   string `json:"blockId,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Name      string `json:"name,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Decode converts a value returned by a remote query into out. Remote values
// arrive as generic maps, slices and numbers; round-tripping them through JSON
// gives them their declared shape.
func Decode(value interface{}, out interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode query result: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode query result: %w", err)
	}
	return nil
}
