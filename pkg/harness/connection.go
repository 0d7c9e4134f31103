package harness

import (
	"fmt"
	"strings"

	"github.com/entrhq/blockdrive/pkg/editor"
)

// ConnectionKind is the role of a connection point on a block.
type ConnectionKind int

const (
	connInvalid ConnectionKind = iota
	ConnOutput
	ConnPrevious
	ConnNext
	ConnInput
)

// Connection identifies a connection point on a block: its output, its
// previous or next statement link, or a named input.
type Connection struct {
	kind ConnectionKind
	name string
}

var (
	Output   = Connection{kind: ConnOutput}
	Previous = Connection{kind: ConnPrevious}
	Next     = Connection{kind: ConnNext}
)

// Input returns the connection of the named input.
func Input(name string) Connection {
	return Connection{kind: ConnInput, name: name}
}

// ParseConnection reads the conventional spelling: OUTPUT, PREVIOUS or NEXT
// for the fixed connections, anything else as an input name.
func ParseConnection(s string) (Connection, error) {
	switch s {
	case "":
		return Connection{}, fmt.Errorf("empty connection name")
	case "OUTPUT":
		return Output, nil
	case "PREVIOUS":
		return Previous, nil
	case "NEXT":
		return Next, nil
	}
	return Input(s), nil
}

// Kind returns the connection's role.
func (c Connection) Kind() ConnectionKind {
	return c.kind
}

// Name returns the input name of an input connection.
func (c Connection) Name() string {
	return c.name
}

func (c Connection) String() string {
	switch c.kind {
	case ConnOutput:
		return "OUTPUT"
	case ConnPrevious:
		return "PREVIOUS"
	case ConnNext:
		return "NEXT"
	case ConnInput:
		return c.name
	}
	return "<invalid>"
}

// wire returns the connection as a query argument.
func (c Connection) wire(blockID, mutator string) (editor.ConnectionArgs, error) {
	args := editor.ConnectionArgs{ID: blockID, Mutator: mutator}
	switch c.kind {
	case ConnOutput:
		args.Kind = editor.KindOutput
	case ConnPrevious:
		args.Kind = editor.KindPrevious
	case ConnNext:
		args.Kind = editor.KindNext
	case ConnInput:
		if c.name == "" {
			return args, fmt.Errorf("input connection without a name")
		}
		args.Kind = editor.KindInput
		args.Name = c.name
	default:
		return args, fmt.Errorf("invalid connection")
	}
	return args, nil
}

// connectionFromWire is the inverse of wire.
func connectionFromWire(kind, name string) (Connection, error) {
	switch strings.ToLower(kind) {
	case editor.KindOutput:
		return Output, nil
	case editor.KindPrevious:
		return Previous, nil
	case editor.KindNext:
		return Next, nil
	case editor.KindInput:
		return Input(name), nil
	}
	return Connection{}, fmt.Errorf("unknown connection kind %q", kind)
}
