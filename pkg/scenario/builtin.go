package scenario

import (
	"context"
	"fmt"

	"github.com/entrhq/blockdrive/pkg/harness"
)

// Toolbox and block types of the test playground.
const (
	TestBlocksToolbox = "test-blocks"
	BasicCategory     = "Basic"

	TypeBasicEmpty   = "test_basic_empty"
	TypeBasicRow     = "test_basic_row"
	TypeValueToStack = "test_basic_value_to_stack"
)

func testBlocks(t harness.Targets) string {
	return t.Playground(TestBlocksToolbox)
}

func init() {
	Register(Scenario{
		Name:        "basic/drag-three",
		Description: "Drag three empty blocks out of the flyout; the count follows each drop",
		Target:      testBlocks,
		Run:         dragThree,
	})
	Register(Scenario{
		Name:        "connect/output-to-value",
		Description: "Drag a row block's output onto a value input and check they connect",
		Target:      testBlocks,
		Run:         connectOutputToValue,
	})
	Register(Scenario{
		Name:        "menu/delete-block",
		Description: "Delete a block from its context menu",
		Target:      testBlocks,
		Run:         deleteFromMenu,
	})
	Register(Scenario{
		Name:        "flyout/drag-nth",
		Description: "Drag a flyout block by position and check it becomes the selection",
		Target:      testBlocks,
		Run:         dragNth,
	})
	Register(Scenario{
		Name:        "rtl/drag-mirrored",
		Description: "Switch the playground to right-to-left and drag with a mirrored offset",
		Target:      testBlocks,
		Run:         dragMirrored,
	})
}

func dragThree(ctx context.Context, s *harness.Session) error {
	gestures := s.Gestures()
	for i := 1; i <= 3; i++ {
		delta := harness.Delta{X: 250, Y: float64(50 * i)}
		if _, err := gestures.DragBlockFromFlyout(ctx, BasicCategory, TypeBasicEmpty, delta); err != nil {
			return err
		}
		if err := expectCount(ctx, s, i); err != nil {
			return err
		}
	}
	return nil
}

func connectOutputToValue(ctx context.Context, s *harness.Session) error {
	gestures := s.Gestures()

	row, err := gestures.DragBlockFromFlyout(ctx, BasicCategory, TypeBasicRow, harness.Delta{X: 250, Y: 200})
	if err != nil {
		return err
	}
	value, err := gestures.DragBlockFromFlyout(ctx, BasicCategory, TypeValueToStack, harness.Delta{X: 400, Y: 40})
	if err != nil {
		return err
	}

	valueInput := harness.Input("VALUE")
	if err := gestures.ConnectByDrag(ctx, row, harness.Output, value, valueInput); err != nil {
		return err
	}

	target, ok, err := s.Inspector().ConnectionTarget(ctx, row.BlockID(), harness.Output)
	if err != nil {
		return err
	}
	want := harness.ConnectionRef{BlockID: value.BlockID(), Connection: valueInput}
	if !ok {
		return fmt.Errorf("%s.OUTPUT is not connected, want %s", row.BlockID(), want)
	}
	if target != want {
		return fmt.Errorf("%s.OUTPUT is connected to %s, want %s", row.BlockID(), target, want)
	}
	return nil
}

func deleteFromMenu(ctx context.Context, s *harness.Session) error {
	block, err := s.Gestures().DragBlockFromFlyout(ctx, BasicCategory, TypeBasicRow, harness.Delta{X: 250, Y: 200})
	if err != nil {
		return err
	}

	before, err := s.Inspector().BlockCount(ctx)
	if err != nil {
		return err
	}
	if err := s.Gestures().RightClickAndSelect(ctx, block, "Delete Block"); err != nil {
		return err
	}
	return expectCount(ctx, s, before-1)
}

func dragNth(ctx context.Context, s *harness.Session) error {
	block, err := s.Gestures().DragNthBlockFromFlyout(ctx, BasicCategory, 1, harness.Delta{X: 300, Y: 80})
	if err != nil {
		return err
	}

	selected, err := s.Inspector().SelectedID(ctx)
	if err != nil {
		return err
	}
	if selected != block.BlockID() {
		return fmt.Errorf("selected block is %q, want the dragged block %q", selected, block.BlockID())
	}
	return expectCount(ctx, s, 1)
}

func dragMirrored(ctx context.Context, s *harness.Session) error {
	if err := s.Gestures().SwitchRTL(ctx); err != nil {
		return err
	}
	dir, err := s.Inspector().Direction(ctx)
	if err != nil {
		return err
	}

	delta := dir.Apply(harness.Delta{X: 250, Y: 50})
	if _, err := s.Gestures().DragBlockFromFlyout(ctx, BasicCategory, TypeBasicEmpty, delta); err != nil {
		return err
	}
	return expectCount(ctx, s, 1)
}
