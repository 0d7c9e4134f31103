package scenario

import (
	"context"
	"time"

	"github.com/entrhq/blockdrive/pkg/harness"
	"github.com/entrhq/blockdrive/pkg/logging"
)

// Run status values
const (
	statusPassed = "passed"
	statusFailed = "failed"
	statusEmpty  = "empty"
)

// Result is the outcome of one scenario.
type Result struct {
	Name      string        `json:"name"`
	Target    string        `json:"target"`
	Passed    bool          `json:"passed"`
	Error     string        `json:"error,omitempty"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// Report summarises a run.
type Report struct {
	Status    string        `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Results   []Result      `json:"results"`
}

// OK reports whether every scenario passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Runner runs scenarios one after another on a shared session.
type Runner struct {
	Manager  *harness.SessionManager
	Targets  harness.Targets
	Reporter *Reporter
	Logger   *logging.Logger
}

// Run opens each scenario's target and runs it. A failing scenario does not
// stop the run. The session is torn down when the run ends.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) *Report {
	logger := r.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	reporter := r.Reporter
	if reporter == nil {
		reporter = NewReporter(nil, LevelQuiet)
	}

	report := &Report{StartTime: time.Now(), Results: make([]Result, 0, len(scenarios))}
	defer func() {
		if err := r.Manager.Teardown(); err != nil {
			logger.Warnf("Teardown failed: %v", err)
		}
	}()

	reporter.Header("blockdrive", len(scenarios))

	for _, sc := range scenarios {
		if ctx.Err() != nil {
			break
		}

		reporter.Start(sc)
		result := r.runOne(ctx, sc)
		if result.Passed {
			report.Passed++
			logger.Infof("Scenario %s passed in %v", sc.Name, result.Duration)
		} else {
			report.Failed++
			logger.Errorf("Scenario %s failed: %s", sc.Name, result.Error)
		}
		report.Results = append(report.Results, result)
		reporter.Result(result)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	switch {
	case len(report.Results) == 0:
		report.Status = statusEmpty
	case report.Failed > 0:
		report.Status = statusFailed
	default:
		report.Status = statusPassed
	}

	reporter.Summary(report)
	return report
}

func (r *Runner) runOne(ctx context.Context, sc Scenario) Result {
	result := Result{Name: sc.Name, Target: sc.Target(r.Targets), StartTime: time.Now()}

	err := func() error {
		s, err := r.Manager.Open(ctx, result.Target)
		if err != nil {
			return err
		}
		return sc.Run(ctx, s)
	}()

	result.Duration = time.Since(result.StartTime)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Passed = true
	return result
}
