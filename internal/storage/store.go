package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/particlefield/internal/field"
)

const (
	metadataFile  = "metadata.json"
	particlesFile = "particles.csv"
	AnimationFile = "field.gif"
)

var particleHeader = []string{"x", "y", "speed", "size", "opacity", "color", "age"}

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
	Agent     string             `json:"agent,omitempty"`
	Mode      string             `json:"mode"`
	Palette   []string           `json:"palette"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Frames    int                `json:"frames"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Animation string             `json:"animation,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Create allocates a run directory and returns its ID.
func (s *Store) Create() (string, error) {
	id := uuid.NewString()
	if err := os.MkdirAll(s.RunDir(id), 0755); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// Save writes the metadata and the final particle pool of a run created
// with Create.
func (s *Store) Save(meta RunMetadata, pool []field.Particle) error {
	if meta.ID == "" {
		return fmt.Errorf("storage: run has no id")
	}
	runDir := s.RunDir(meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, particlesFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(particleHeader); err != nil {
		return err
	}
	for _, p := range pool {
		row := []string{
			strconv.FormatFloat(p.X, 'f', 6, 64),
			strconv.FormatFloat(p.Y, 'f', 6, 64),
			strconv.FormatFloat(p.Speed, 'f', 6, 64),
			strconv.FormatFloat(p.Size, 'f', 6, 64),
			strconv.FormatFloat(p.Opacity, 'f', 6, 64),
			p.Color.String(),
			strconv.Itoa(p.Age),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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

// LoadParticles reads back the pool saved with a run.
func (s *Store) LoadParticles(runID string) ([]field.Particle, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, particlesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(particleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []field.Particle{}, nil
	}

	pool := make([]field.Particle, 0, len(records)-1)
	for i, rec := range records[1:] {
		p, err := parseParticle(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", particlesFile, i+2, err)
		}
		pool = append(pool, p)
	}
	return pool, nil
}

func parseParticle(rec []string) (field.Particle, error) {
	var p field.Particle
	floats := []*float64{&p.X, &p.Y, &p.Speed, &p.Size, &p.Opacity}
	for i, dst := range floats {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return p, err
		}
		*dst = v
	}
	if rec[5] != "" {
		c, err := field.ParseColor(rec[5])
		if err != nil {
			return p, err
		}
		p.Color = c
	}
	age, err := strconv.Atoi(rec[6])
	if err != nil {
		return p, err
	}
	p.Age = age
	return p, nil
}
