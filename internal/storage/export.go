package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/buoysim/internal/sim"
)

type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Samples []sim.Sample `json:"samples"`
}

// Export writes a stored run to w as "csv" (samples only) or "json"
// (metadata and samples).
func (s *Store) Export(w io.Writer, runID, format string) error {
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		return gocsv.Marshal(&samples, w)
	case "json":
		meta, err := s.Load(runID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ExportData{Run: *meta, Samples: samples})
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}
