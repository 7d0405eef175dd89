package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/songsen/servoM8/internal/servo"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var sampleHeader = []string{"cycle", "position", "seek", "pwm", "drive", "integral", "reversed"}

// Store keeps each run in its own directory under baseDir.
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
	ID         string             `json:"id"`
	Controller string             `json:"controller"`
	Profile    string             `json:"profile"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	SampleRate float64            `json:"sample_rate"`
	Cycles     int                `json:"cycles"`
	Schedule   []servo.Setpoint   `json:"schedule,omitempty"`
	Registers  map[string]uint16  `json:"registers,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// Save writes meta and the samples of result to a new run directory and
// returns the run ID. ID, Timestamp, Cycles, Metrics and Errors are filled
// in from the result.
func (s *Store) Save(meta RunMetadata, result *servo.Result) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = s.newID(meta.Controller, meta.Timestamp)
	meta.Cycles = result.Cycles
	meta.Metrics = result.Metrics
	meta.Errors = nil
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) newID(controller string, ts time.Time) string {
	base := fmt.Sprintf("%s_%d", controller, ts.Unix())
	id := base
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, id)); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
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

func writeSamples(path string, samples []servo.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSamplesCSV(f, samples)
}

// WriteSamplesCSV writes samples in the samples.csv layout.
func WriteSamplesCSV(out io.Writer, samples []servo.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Cycle),
			strconv.Itoa(int(s.Position)),
			strconv.Itoa(int(s.Seek)),
			strconv.Itoa(int(s.PWM)),
			strconv.Itoa(int(s.Drive)),
			strconv.Itoa(int(s.Integral)),
			strconv.FormatBool(s.Reversed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads the per-cycle samples of a run.
func (s *Store) LoadSamples(runID string) ([]servo.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(sampleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []servo.Sample{}, nil
	}

	samples := make([]servo.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		reversed, err := strconv.ParseBool(record[6])
		if err != nil {
			return nil, fmt.Errorf("storage: run %s line %d: %w", runID, i+2, err)
		}
		var v [6]int
		for j, field := range record[:6] {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("storage: run %s line %d: %w", runID, i+2, err)
			}
			v[j] = n
		}
		samples = append(samples, servo.Sample{
			Cycle:    v[0],
			Position: int16(v[1]),
			Seek:     int16(v[2]),
			PWM:      int16(v[3]),
			Drive:    int16(v[4]),
			Integral: int16(v[5]),
			Reversed: reversed,
		})
	}
	return samples, nil
}
