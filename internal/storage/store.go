package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/splashsim/internal/sim"
)

var ErrNoSeries = errors.New("storage: no such series")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BodyInfo struct {
	ID     int     `json:"id"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Bodies    []BodyInfo         `json:"bodies"`
	Entries   int                `json:"entries"`
	Exits     int                `json:"exits"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and the sampled run under a fresh run directory and
// returns its ID. ID, Timestamp, Steps and Metrics are filled from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics
	meta.Entries, meta.Exits = 0, 0
	for _, e := range result.Events {
		switch e.Kind {
		case sim.Entry:
			meta.Entries++
		case sim.Exit:
			meta.Exits++
		}
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, "states.csv"), result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(samples) > 0 {
		header := []string{"time", "baseline", "activity"}
		for _, b := range samples[0].Bodies {
			header = append(header,
				fmt.Sprintf("b%d_y", b.ID),
				fmt.Sprintf("b%d_vy", b.ID),
				fmt.Sprintf("b%d_phase", b.ID),
			)
		}
		if err := w.Write(header); err != nil {
			return err
		}

		for _, smp := range samples {
			row := []string{
				formatFloat(smp.Time),
				formatFloat(smp.Baseline),
				formatFloat(smp.Activity),
			}
			for _, b := range smp.Bodies {
				row = append(row, formatFloat(b.Y), formatFloat(b.VY), strconv.Itoa(int(b.Phase)))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Series is a run's states.csv as named columns.
type Series struct {
	Columns []string
	Times   []float64
	Values  map[string][]float64
}

func (s *Series) Get(name string) ([]float64, error) {
	v, ok := s.Values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSeries, name)
	}
	return v, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{Values: make(map[string][]float64)}
	if len(records) == 0 {
		return series, nil
	}

	series.Columns = records[0][1:]
	for _, record := range records[1:] {
		if len(record) != len(records[0]) {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		series.Times = append(series.Times, t)

		for j, name := range series.Columns {
			val, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				val = 0
			}
			series.Values[name] = append(series.Values[name], val)
		}
	}

	return series, nil
}
