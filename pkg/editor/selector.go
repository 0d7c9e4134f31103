package editor

import "fmt"

// Selectors for the editor's rendered chrome.
const (
	// BlockTextSelector matches the text elements inside a block. The first one
	// is the click target for context menus, since a block's centre can fall in
	// a hole such as an empty statement input.
	BlockTextSelector = ".blocklyText"

	// DirectionSelector is the playground's LTR/RTL <select>.
	DirectionSelector = "#options > select:nth-child(1)"

	flyoutCanvasSelector = ".blocklyFlyout .blocklyBlockCanvas"
)

// CategorySelector matches a toolbox category whose label contains name.
func CategorySelector(name string) string {
	return fmt.Sprintf(".blocklyToolboxCategory:has-text(%q)", name)
}

// FlyoutSlot returns the child position of the n-th (0-indexed) block on the
// flyout canvas. The canvas interleaves each block with a separator element
// after two leading children, so blocks sit at 3, 5, 7, ...
//
// This is a property of the editor's current DOM layout, not of the block
// graph. Prefer type-based lookup whenever the block type is known.
func FlyoutSlot(n int) int {
	return 3 + 2*n
}

// FlyoutSlotSelector matches the n-th block on the open flyout's canvas.
func FlyoutSlotSelector(n int) string {
	return fmt.Sprintf("%s > g:nth-child(%d)", flyoutCanvasSelector, FlyoutSlot(n))
}

// BlockSelector matches the root SVG group of the block with the given id.
func BlockSelector(id string) string {
	return fmt.Sprintf(`[data-id="%s"]`, id)
}

// MenuItemSelector matches a context menu entry whose text is exactly text.
func MenuItemSelector(text string) string {
	return fmt.Sprintf("div:text-is(%q)", text)
}
