package bootstrap

import (
	"context"
	"os"
	"strings"
	"testing"

	platformerrors "culturescan-server-go/internal/platform/errors"
)

func TestInitGraph_DependenciesResolvable(t *testing.T) {
	steps := InitGraph()

	seen := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		if step.ID == "" {
			t.Error("step with empty ID")
		}
		if step.Execute == nil {
			t.Errorf("step %s has no execute function", step.ID)
		}
		for _, dep := range step.DependsOn {
			if _, ok := seen[dep]; !ok {
				t.Errorf("step %s depends on %s, which does not precede it", step.ID, dep)
			}
		}
		if _, dup := seen[step.ID]; dup {
			t.Errorf("duplicate step ID %s", step.ID)
		}
		seen[step.ID] = struct{}{}
	}
}

func TestExecuteInitSteps_UnsatisfiedDependency(t *testing.T) {
	steps := []initStep{
		{
			ID:        "b",
			DependsOn: []string{"a"},
			Execute:   func(context.Context, *appState) error { return nil },
		},
	}

	err := executeInitSteps(context.Background(), steps, &appState{})
	if err == nil {
		t.Fatal("expected dependency error")
	}
	if !strings.Contains(err.Error(), "dependency a not satisfied") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecuteInitSteps_NilState(t *testing.T) {
	err := executeInitSteps(context.Background(), InitGraph(), nil)
	if err == nil {
		t.Fatal("expected error for nil state")
	}
	if !platformerrors.IsKind(err, platformerrors.KindBootstrap) {
		t.Errorf("expected bootstrap kind, got %v", err)
	}
}

func TestExecuteInitSteps_MissingAPIKeyFailsConfigStep(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	// run in an empty directory so no .env or config file leaks in
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})

	err = executeInitSteps(context.Background(), InitGraph(), &appState{})
	if err == nil {
		t.Fatal("expected startup failure without API key")
	}
	if !platformerrors.IsKind(err, platformerrors.KindConfig) {
		t.Errorf("expected config kind, got %v", err)
	}
}
