// Package harness drives a Blockly-compatible block editor running in a remote
// browser the way a user would: it finds blocks and toolbox chrome on screen,
// works out where their connection points are drawn, and performs the pointer
// gestures that edit the block graph.
//
// # Architecture
//
// The package is built around a session manager and the four components bound to its session:
//
//  1. SessionManager: owns the single live browser session, created lazily and torn down explicitly
//  2. ElementLocator: resolves toolbox categories, flyout blocks and workspace blocks to elements
//  3. ConnectionGeometry: computes the screen position of a block's typed connection point
//  4. GestureSimulator: drags, connects, right-clicks and selects menu items
//  5. WorkspaceInspector: reads selection and block inventory back out of the editor
//
// Everything that crosses the browser boundary is a flat projection: block ids,
// block types, coordinates. Live editor objects never leave the document.
//
// # Session Lifecycle
//
//  1. Ensure: SessionManager.EnsureSession launches the browser on first use
//  2. Open: SessionManager.Open navigates the session to a target document
//  3. Use: components obtained from the Session run lookups and gestures
//  4. Teardown: SessionManager.Teardown closes the browser; the next Ensure starts fresh
//
// # Waiting
//
// Editor state settles asynchronously after a gesture. Every wait in the package
// goes through Poll, bounded by the configured wait window; nothing else retries.
// A stale element surfaces as an error from the call that touched it.
//
// # Usage Example
//
//	manager := harness.NewSessionManager(cfg, remote.NewPlaywrightLauncher(), logger)
//	defer manager.Teardown()
//
//	session, err := manager.Open(ctx, harness.NewTargets(root).Playground("test-blocks"))
//	if err != nil {
//	    return err
//	}
//
//	block, err := session.Gestures().DragBlockFromFlyout(ctx, "Basic", "test_basic_empty", harness.Delta{X: 250, Y: 50})
//	if err != nil {
//	    return err
//	}
//	blocks, err := session.Inspector().AllBlocks(ctx)
package harness
