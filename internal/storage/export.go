package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/splashsim/internal/sim"
)

type ExportEvent struct {
	Time float64 `json:"time"`
	Body int     `json:"body"`
	Kind string  `json:"kind"`
}

type ExportData struct {
	Meta    RunMetadata          `json:"meta"`
	Samples []sim.Sample         `json:"samples,omitempty"`
	Events  []ExportEvent        `json:"events,omitempty"`
	Series  map[string][]float64 `json:"series,omitempty"`
	Times   []float64            `json:"times,omitempty"`
}

// ExportJSON writes a live result with its metadata to w.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Meta:    meta,
		Samples: result.Samples,
		Events:  make([]ExportEvent, len(result.Events)),
	}
	for i, e := range result.Events {
		data.Events[i] = ExportEvent{Time: e.Time, Body: e.Body, Kind: string(e.Kind)}
	}
	return encode(w, data)
}

// ExportRun writes a stored run, metadata plus recorded series, to w.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	return encode(w, ExportData{Meta: *meta, Series: series.Values, Times: series.Times})
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
