package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/splashsim/internal/fluid"
	"github.com/san-kum/splashsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Time: 0, Baseline: 0, Activity: 0, Bodies: []sim.BodySample{{ID: 1, Y: 1.0}}},
			{Time: 0.5, Baseline: 0.001, Activity: 12.5, Bodies: []sim.BodySample{{ID: 1, Y: 2.1, VY: 0.4, Phase: fluid.Submerged}}},
		},
		Events:     []sim.Event{{Time: 0.47, Body: 1, Kind: sim.Entry}},
		Metrics:    map[string]float64{"baseline_shift": 0.001},
		StepsTaken: 50,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Scene:    "water",
		Preset:   "calm",
		Dt:       0.01,
		Duration: 0.5,
		Bodies:   []BodyInfo{{ID: 1, Radius: 0.4, Mass: 1.2}},
	}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scene != "water" || meta.Preset != "calm" {
		t.Errorf("unexpected scene/preset: %q/%q", meta.Scene, meta.Preset)
	}
	if meta.Steps != 50 {
		t.Errorf("expected 50 steps, got %d", meta.Steps)
	}
	if meta.Entries != 1 || meta.Exits != 0 {
		t.Errorf("expected 1 entry 0 exits, got %d/%d", meta.Entries, meta.Exits)
	}
	if meta.Metrics["baseline_shift"] != 0.001 {
		t.Errorf("expected baseline_shift 0.001, got %f", meta.Metrics["baseline_shift"])
	}
	if len(meta.Bodies) != 1 || meta.Bodies[0].Mass != 1.2 {
		t.Errorf("unexpected bodies: %+v", meta.Bodies)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(series.Times) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(series.Times))
	}

	y, err := series.Get("b1_y")
	if err != nil {
		t.Fatalf("b1_y: %v", err)
	}
	if y[1] != 2.1 {
		t.Errorf("expected y 2.1, got %f", y[1])
	}
	phase, _ := series.Get("b1_phase")
	if phase[1] != float64(fluid.Submerged) {
		t.Errorf("expected submerged phase, got %f", phase[1])
	}

	if _, err := series.Get("nope"); !errors.Is(err, ErrNoSeries) {
		t.Errorf("expected ErrNoSeries, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Scene: "water"}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Scene: "water"}, &sim.Result{Metrics: map[string]float64{}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "states.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(series.Times) != 0 {
		t.Errorf("expected empty series, got %d rows", len(series.Times))
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{Scene: "water"}, testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(data.Samples) != 2 {
		t.Errorf("expected 2 samples, got %d", len(data.Samples))
	}
	if len(data.Events) != 1 || data.Events[0].Kind != "entry" {
		t.Errorf("unexpected events: %+v", data.Events)
	}
}

func TestExportRun(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Scene: "water"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportRun(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.Meta.ID != runID {
		t.Errorf("expected id %q, got %q", runID, data.Meta.ID)
	}
	if len(data.Series["baseline"]) != 2 {
		t.Errorf("expected 2 baseline values, got %d", len(data.Series["baseline"]))
	}
}
