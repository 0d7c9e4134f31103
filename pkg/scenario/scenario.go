// Package scenario holds named end-to-end editor scenarios built on the
// harness, and runs them against a live session with console and file
// reporting.
package scenario

import (
	"context"
	"fmt"
	"sort"

	"github.com/entrhq/blockdrive/pkg/harness"
)

// Scenario is one named interaction with the editor and its assertions.
type Scenario struct {
	// Name is a slash-separated identifier, e.g. "basic/drag-three"
	Name string

	// Description says what the scenario checks
	Description string

	// Target picks the document the scenario runs against
	Target func(harness.Targets) string

	// Run performs the scenario on a freshly loaded document
	Run func(ctx context.Context, s *harness.Session) error
}

var registry = map[string]Scenario{}

// Register adds sc to the registry. It panics on duplicate or incomplete
// scenarios, which are programming errors.
func Register(sc Scenario) {
	if sc.Name == "" || sc.Run == nil || sc.Target == nil {
		panic(fmt.Sprintf("scenario: incomplete scenario %q", sc.Name))
	}
	if _, exists := registry[sc.Name]; exists {
		panic(fmt.Sprintf("scenario: %q already registered", sc.Name))
	}
	registry[sc.Name] = sc
}

// All returns every registered scenario sorted by name.
func All() []Scenario {
	out := make([]Scenario, 0, len(registry))
	for _, sc := range registry {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the scenario registered under name.
func Lookup(name string) (Scenario, bool) {
	sc, ok := registry[name]
	return sc, ok
}

// expectCount fails unless the main workspace holds want blocks.
func expectCount(ctx context.Context, s *harness.Session, want int) error {
	got, err := s.Inspector().BlockCount(ctx)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %d blocks on the workspace, found %d", want, got)
	}
	return nil
}
