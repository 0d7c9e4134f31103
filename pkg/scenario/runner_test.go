package scenario

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/entrhq/blockdrive/pkg/config"
	"github.com/entrhq/blockdrive/pkg/harness"
	"github.com/entrhq/blockdrive/pkg/remote/remotetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRunner(t *testing.T, out *bytes.Buffer) (*Runner, *remotetest.Launcher) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timeouts.Wait = 200 * time.Millisecond
	cfg.Timeouts.PollInterval = 5 * time.Millisecond

	// Every navigation loads a fresh playground
	launcher := remotetest.NewLauncher(func(string) (*remotetest.Editor, error) {
		return remotetest.Playground(), nil
	})
	return &Runner{
		Manager:  harness.NewSessionManager(cfg, launcher, nil),
		Targets:  harness.NewTargets("/srv/editor"),
		Reporter: NewReporter(out, LevelVerbose),
	}, launcher
}

func TestBuiltinScenariosPass(t *testing.T) {
	var out bytes.Buffer
	runner, launcher := newRunner(t, &out)

	report := runner.Run(context.Background(), All())

	for _, res := range report.Results {
		assert.True(t, res.Passed, "%s: %s", res.Name, res.Error)
		assert.Equal(t, "file:///srv/editor/tests/playground.html?toolbox=test-blocks", res.Target)
	}
	assert.Equal(t, len(All()), report.Passed)
	assert.Zero(t, report.Failed)
	assert.True(t, report.OK())
	assert.Equal(t, "passed", report.Status)

	// One browser serves the whole run and is closed at the end
	require.Len(t, launcher.Launches(), 1)
	assert.True(t, launcher.Browser().Closed())
	assert.False(t, runner.Manager.HasSession())

	assert.Contains(t, out.String(), "✓ basic/drag-three")
	assert.Contains(t, out.String(), "PASSED")
}

func TestRunnerRecordsFailures(t *testing.T) {
	var out bytes.Buffer
	runner, _ := newRunner(t, &out)

	scenarios := []Scenario{
		{
			Name:   "fails",
			Target: testBlocks,
			Run: func(ctx context.Context, s *harness.Session) error {
				return errors.New("boom")
			},
		},
		{
			Name:   "passes",
			Target: testBlocks,
			Run: func(ctx context.Context, s *harness.Session) error {
				return expectCount(ctx, s, 0)
			},
		},
	}

	report := runner.Run(context.Background(), scenarios)

	require.Len(t, report.Results, 2)
	assert.False(t, report.Results[0].Passed)
	assert.Equal(t, "boom", report.Results[0].Error)
	assert.True(t, report.Results[1].Passed)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.OK())
	assert.Equal(t, "failed", report.Status)
	assert.Contains(t, out.String(), "✗ fails")
}

func TestRunnerLaunchFailure(t *testing.T) {
	runner, launcher := newRunner(t, &bytes.Buffer{})
	launcher.Err = errors.New("no browser")

	report := runner.Run(context.Background(), []Scenario{{
		Name:   "never-runs",
		Target: testBlocks,
		Run: func(ctx context.Context, s *harness.Session) error {
			t.Fatal("scenario ran without a session")
			return nil
		},
	}})

	require.Len(t, report.Results, 1)
	assert.False(t, report.Results[0].Passed)
	assert.Contains(t, report.Results[0].Error, "no browser")
}

func TestRunnerStopsOnCanceledContext(t *testing.T) {
	runner, launcher := newRunner(t, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := runner.Run(ctx, All())

	assert.Empty(t, report.Results)
	assert.Equal(t, "empty", report.Status)
	assert.Empty(t, launcher.Launches())
}

func TestExpectCount(t *testing.T) {
	var out bytes.Buffer
	runner, _ := newRunner(t, &out)
	defer runner.Manager.Teardown()

	s, err := runner.Manager.Open(context.Background(), testBlocks(runner.Targets))
	require.NoError(t, err)

	assert.NoError(t, expectCount(context.Background(), s, 0))
	err = expectCount(context.Background(), s, 2)
	require.Error(t, err)
	assert.Equal(t, "expected 2 blocks on the workspace, found 0", err.Error())
}
