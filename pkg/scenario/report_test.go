package scenario

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelQuiet, ParseLevel("quiet"))
	assert.Equal(t, LevelNormal, ParseLevel("normal"))
	assert.Equal(t, LevelVerbose, ParseLevel("verbose"))
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelNormal, ParseLevel("unknown"))
}

func TestReporterLevels(t *testing.T) {
	sc := Scenario{Name: "basic/drag-three", Description: "drags blocks"}
	pass := Result{Name: sc.Name, Target: "file:///p.html", Passed: true, Duration: 1500 * time.Millisecond}
	fail := Result{Name: "menu/delete-block", Target: "file:///p.html", Error: "expected 0 blocks"}

	tests := []struct {
		level   Level
		want    []string
		notWant []string
	}{
		{
			level:   LevelQuiet,
			want:    []string{"✗ menu/delete-block", "expected 0 blocks", "FAILED"},
			notWant: []string{"▶ basic/drag-three", "✓ basic/drag-three", "target:"},
		},
		{
			level:   LevelNormal,
			want:    []string{"2 scenario(s)", "▶ basic/drag-three", "✓ basic/drag-three (1.5s)", "✗ menu/delete-block"},
			notWant: []string{"drags blocks", "target:"},
		},
		{
			level:   LevelVerbose,
			want:    []string{"→ drags blocks", "target: file:///p.html"},
			notWant: []string{"started:"},
		},
		{
			level: LevelDebug,
			want:  []string{"started:"},
		},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		r := NewReporter(&out, tt.level)
		r.Header("blockdrive", 2)
		r.Start(sc)
		r.Result(pass)
		r.Result(fail)
		r.Summary(&Report{Status: statusFailed, Passed: 1, Failed: 1})

		for _, s := range tt.want {
			assert.Contains(t, out.String(), s, "level %d", tt.level)
		}
		for _, s := range tt.notWant {
			assert.NotContains(t, out.String(), s, "level %d", tt.level)
		}
		assert.Contains(t, out.String(), "Passed: 1  Failed: 1")
	}
}

func TestReporterEmptySummary(t *testing.T) {
	var out bytes.Buffer
	NewReporter(&out, LevelNormal).Summary(&Report{Status: statusEmpty})
	assert.Contains(t, out.String(), "no scenarios ran")
}
