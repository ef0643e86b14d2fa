package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/rigid2d/internal/sim"
)

type ExportData struct {
	ID       string             `json:"id"`
	Scene    string             `json:"scene"`
	Seed     int64              `json:"seed"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Columns  []string           `json:"columns"`
	Times    []float64          `json:"times"`
	States   []sim.State        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

func NewExportData(meta *RunMetadata, states []sim.State, times []float64) ExportData {
	data := ExportData{
		ID:       meta.ID,
		Scene:    meta.Scene,
		Seed:     meta.Seed,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    len(times),
		Times:    times,
		States:   states,
		Metrics:  meta.Metrics,
	}
	if len(states) > 0 {
		data.Columns = StateHeader(states[0].Bodies())[1:]
	}
	return data
}

func ExportJSON(w io.Writer, meta *RunMetadata, states []sim.State, times []float64) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, states, times))
}

func ExportJSONFile(path string, meta *RunMetadata, states []sim.State, times []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, meta, states, times)
}

// ExportRun loads a stored run and writes it as JSON.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, meta, states, times)
}
