package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/buoysim/internal/config"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	samplesFile  = "samples.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
	// Final is the scene state at the end of the run.
	Final sim.Snapshot `json:"final"`
}

// Save writes a run directory holding metadata.json, the scene config and
// one CSV row per sample.
func (s *Store) Save(cfg *config.Config, result *sim.Result, final sim.Snapshot) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    cfg.Name,
		Timestamp: now,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Frames:    result.StepsTaken,
		Metrics:   result.Metrics,
		Final:     final,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	f, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if len(result.Samples) > 0 {
		if err := gocsv.MarshalFile(&result.Samples, f); err != nil {
			return "", fmt.Errorf("writing samples: %w", err)
		}
	}

	dynamo.Logger().Info("run saved", slog.String("id", runID), slog.Int("samples", len(result.Samples)))
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

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	samples := []sim.Sample{}
	if err := gocsv.UnmarshalFile(f, &samples); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return samples, nil
		}
		return nil, err
	}
	return samples, nil
}
