package storage

import (
	"encoding/json"
	"io"

	"github.com/songsen/servoM8/internal/servo"
)

// ExportData is the single-document JSON form of a run.
type ExportData struct {
	RunMetadata
	Samples []servo.Sample `json:"samples"`
}

// ExportJSON writes the run as one indented JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Samples: samples})
}
