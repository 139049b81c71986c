package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kjstillabower/sentinel-predict-service/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RANDOM_SEED", "")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const testConfig = `
alerts:
  timezone: "UTC"
  heartbeat: false
`

// TestPredictCommand_SeededIsReproducible verifies two runs with the same seed produce the same numbers.
func TestPredictCommand_SeededIsReproducible(t *testing.T) {
	path := writeConfig(t, testConfig)

	decode := func(out string) models.Prediction {
		t.Helper()
		var p models.Prediction
		if err := json.Unmarshal([]byte(out), &p); err != nil {
			t.Fatalf("decode output: %v\n%s", err, out)
		}
		return p
	}

	out1, err := runCLI(t, "predict", "h3", "--config", path, "--seed", "42")
	if err != nil {
		t.Fatalf("predict error = %v", err)
	}
	out2, err := runCLI(t, "predict", "h3", "--config", path, "--seed", "42", "--compact")
	if err != nil {
		t.Fatalf("predict error = %v", err)
	}
	if strings.Count(strings.TrimSpace(out2), "\n") != 0 {
		t.Errorf("--compact output spans multiple lines")
	}

	p1, p2 := decode(out1), decode(out2)
	if p1.FactorAnalysis != p2.FactorAnalysis {
		t.Errorf("factorAnalysis differs: %+v vs %+v", p1.FactorAnalysis, p2.FactorAnalysis)
	}
	if len(p1.LoadForecast) != 5 {
		t.Fatalf("loadForecast len = %d, want 5", len(p1.LoadForecast))
	}
	for i := range p1.LoadForecast {
		if p1.LoadForecast[i] != p2.LoadForecast[i] {
			t.Errorf("loadForecast[%d] = %d vs %d", i, p1.LoadForecast[i], p2.LoadForecast[i])
		}
	}
	if p1.ModelConfidence != p2.ModelConfidence {
		t.Errorf("modelConfidence = %d vs %d", p1.ModelConfidence, p2.ModelConfidence)
	}
}

// TestPredictCommand_InvalidID verifies ids are validated before any prediction.
func TestPredictCommand_InvalidID(t *testing.T) {
	path := writeConfig(t, testConfig)

	_, err := runCLI(t, "predict", strings.Repeat("h", 65), "--config", path)
	if err == nil || !strings.Contains(err.Error(), "too long") {
		t.Fatalf("predict error = %v, want too long", err)
	}
}

// TestPredictCommand_PunctuatedID verifies an unusual id is predicted, not rejected.
func TestPredictCommand_PunctuatedID(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := runCLI(t, "predict", "st.johns", "--config", path, "--seed", "1")
	if err != nil {
		t.Fatalf("predict error = %v", err)
	}
	var p models.Prediction
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(p.LoadForecast) != 5 {
		t.Errorf("loadForecast len = %d, want 5", len(p.LoadForecast))
	}
}

// TestPredictCommand_RequiresOneArg verifies the argument count is enforced.
func TestPredictCommand_RequiresOneArg(t *testing.T) {
	if _, err := runCLI(t, "predict"); err == nil {
		t.Fatal("predict without id: expected error")
	}
}

// TestPredictCommand_MissingConfig verifies a missing config file is reported.
func TestPredictCommand_MissingConfig(t *testing.T) {
	_, err := runCLI(t, "predict", "h1", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("predict error = %v, want load config error", err)
	}
}

// TestCoverageGaps_IntentionallyUntested documents paths we reviewed but chose not to test.
func TestCoverageGaps_IntentionallyUntested(t *testing.T) {
	t.Run("runServer", func(t *testing.T) {
		t.Skip("binds a real port and waits for a signal; router and shutdown pieces are tested in internal/http")
	})
}
