package remotetest

import (
	"fmt"

	"github.com/entrhq/blockdrive/pkg/editor"
)

// execute answers the editor queries. Results use the generic JSON shapes a
// real browser returns.
func (e *Editor) execute(script string, arg interface{}) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.executed[script]++
	args, _ := arg.(map[string]interface{})

	switch editor.Query(script) {
	case editor.QuerySelectedID:
		if e.selected == nil {
			return "", nil
		}
		return e.selected.ID, nil

	case editor.QueryFlyoutBlockID:
		typ := stringArg(args, "type")
		for _, fb := range e.flyout {
			if fb.typ.Type == typ {
				return fb.id, nil
			}
		}
		return "", nil

	case editor.QuerySurfaceBlock:
		typ := stringArg(args, "type")
		ordinal := int(numberArg(args, "ordinal"))
		var ids []string
		for _, b := range e.main.blocks {
			if b.Type.Type == typ {
				ids = append(ids, b.ID)
			}
		}
		id := ""
		if ordinal >= 0 && ordinal < len(ids) {
			id = ids[ordinal]
		}
		return map[string]interface{}{"id": id, "count": float64(len(ids))}, nil

	case editor.QueryAllBlocks:
		out := make([]interface{}, 0, len(e.main.blocks))
		for _, b := range e.main.blocks {
			out = append(out, map[string]interface{}{"type": b.Type.Type, "id": b.ID})
		}
		return out, nil

	case editor.QueryConnectionGeometry:
		b, slot, code := e.resolveConnection(args)
		if code != "" {
			return map[string]interface{}{"error": code}, nil
		}
		ox, oy, _ := b.offset(slot)
		return map[string]interface{}{
			"block":  map[string]interface{}{"x": b.X, "y": b.Y},
			"offset": map[string]interface{}{"x": ox, "y": oy},
		}, nil

	case editor.QueryConnectionTarget:
		b, slot, code := e.resolveConnection(args)
		if code != "" {
			return map[string]interface{}{"error": code}, nil
		}
		return e.connectionTarget(b, slot), nil

	case editor.QueryWorkspaceToScreen:
		x, y := e.toScreen(numberArg(args, "x"), numberArg(args, "y"))
		return map[string]interface{}{"x": x, "y": y}, nil

	case editor.QueryIsRTL:
		return e.rtl, nil
	}

	return nil, fmt.Errorf("script execution failed: unsupported script")
}

func (e *Editor) resolveConnection(args map[string]interface{}) (*Block, Slot, string) {
	ws := e.main
	if owner := stringArg(args, "mutator"); owner != "" {
		if e.main.find(owner) == nil {
			return nil, Slot{}, editor.ErrCodeNoMutatorBlock
		}
		m, ok := e.mutators[owner]
		if !ok {
			return nil, Slot{}, editor.ErrCodeNoMutatorWorkspace
		}
		ws = m
	}

	b := ws.find(stringArg(args, "id"))
	if b == nil {
		return nil, Slot{}, editor.ErrCodeNoBlock
	}

	slot := Slot{Kind: stringArg(args, "kind")}
	switch slot.Kind {
	case editor.KindOutput, editor.KindPrevious, editor.KindNext:
	case editor.KindInput:
		slot.Name = stringArg(args, "name")
		if _, _, ok := b.offset(slot); !ok {
			return nil, Slot{}, editor.ErrCodeNoInput
		}
	default:
		return nil, Slot{}, editor.ErrCodeBadKind
	}

	if _, _, ok := b.offset(slot); !ok {
		return nil, Slot{}, editor.ErrCodeNoConnection
	}
	return b, slot, ""
}

func (e *Editor) connectionTarget(b *Block, slot Slot) map[string]interface{} {
	switch slot.Kind {
	case editor.KindOutput, editor.KindPrevious:
		if b.Parent == nil {
			return map[string]interface{}{"connected": false}
		}
		return map[string]interface{}{
			"connected": true,
			"blockId":   b.Parent.ID,
			"kind":      b.ParentSlot.Kind,
			"name":      b.ParentSlot.Name,
		}
	default:
		child := b.target(slot)
		if child == nil {
			return map[string]interface{}{"connected": false}
		}
		kind := editor.KindPrevious
		if child.Type.Output {
			kind = editor.KindOutput
		}
		return map[string]interface{}{
			"connected": true,
			"blockId":   child.ID,
			"kind":      kind,
			"name":      "",
		}
	}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func numberArg(args map[string]interface{}, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
