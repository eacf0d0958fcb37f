package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Menatic/AI-insights/pkg/config"
	"github.com/Menatic/AI-insights/pkg/sim"
)

func env(vars map[string]string) config.Getenv {
	return func(k string) string { return vars[k] }
}

func TestRunPrintsEpochLines(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	getenv := env(map[string]string{
		"AI_INSIGHTS_MAX_EPOCHS":  "3",
		"AI_INSIGHTS_TIME_BUDGET": "60",
		"AI_INSIGHTS_SEED":        "1",
		"AI_INSIGHTS_RUN_LOG_DIR": dir,
	})
	var out, errOut bytes.Buffer
	if err := run(context.Background(), []string{"4x"}, getenv, &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if n := strings.Count(text, "[epoch] "); n != 3 {
		t.Fatalf("epoch lines = %d\n%s", n, text)
	}
	for _, want := range []string{
		"config: epochs=3 time_budget=1:00 speed=4x interval=250ms",
		"[epoch] 3/3 ",
		"eta=0:48",
		"[done] epochs=3",
		"[confusion] ",
		"[scores] accuracy=",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q\n%s", want, text)
		}
	}
	if !strings.Contains(errOut.String(), "Training completed successfully!") {
		t.Errorf("log missing completion:\n%s", errOut.String())
	}
	if m, _ := filepath.Glob(filepath.Join(dir, "metrics", "*.csv")); len(m) != 1 {
		t.Errorf("metrics files = %v", m)
	}
	if m, _ := filepath.Glob(filepath.Join(dir, "metrics", "curves_*.png")); len(m) != 1 {
		t.Errorf("curve files = %v", m)
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errOut bytes.Buffer
	getenv := env(map[string]string{"AI_INSIGHTS_MAX_EPOCHS": "3"})
	if err := run(ctx, nil, getenv, &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "[stopped] epoch 0/3") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestRunRejectsBadSpeed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		arg  string
		want error
	}{
		{"fast", sim.ErrUnsupportedSpeed},
		{"3", config.ErrInvalid},
	}
	for _, tc := range tests {
		var out, errOut bytes.Buffer
		err := run(context.Background(), []string{tc.arg}, env(nil), &out, &errOut)
		if !errors.Is(err, tc.want) {
			t.Errorf("arg %q: err = %v, want %v", tc.arg, err, tc.want)
		}
	}
}
