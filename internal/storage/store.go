package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gkquad/internal/experiment"
	"github.com/san-kum/gkquad/internal/quad"
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
	ID          string             `json:"id"`
	Integrand   string             `json:"integrand"`
	Timestamp   time.Time          `json:"timestamp"`
	Lower       float64            `json:"lower"`
	Upper       float64            `json:"upper"`
	Tolerance   float64            `json:"tolerance"`
	Params      map[string]float64 `json:"params,omitempty"`
	Value       float64            `json:"value"`
	AbsErr      float64            `json:"abs_err"`
	Exact       *float64           `json:"exact,omitempty"`
	Evaluations int64              `json:"evaluations"`
	Intervals   int64              `json:"intervals"`
	MaxDepth    int                `json:"max_depth"`
	Leaves      int                `json:"leaves"`
	Converged   bool               `json:"converged"`
	Guard       string             `json:"guard"`
	Elapsed     time.Duration      `json:"elapsed_ns"`
}

// Metadata summarises an outcome without its leaves.
func Metadata(id string, out *experiment.Outcome) RunMetadata {
	res := out.Result
	meta := RunMetadata{
		ID:          id,
		Integrand:   out.Integrand,
		Timestamp:   time.Now(),
		Lower:       out.Lower,
		Upper:       out.Upper,
		Tolerance:   out.Tolerance,
		Params:      out.Params,
		Value:       res.Value,
		AbsErr:      res.AbsErr,
		Evaluations: res.Evaluations,
		Intervals:   res.Intervals,
		MaxDepth:    res.MaxDepth,
		Leaves:      res.LeafCount,
		Converged:   res.Converged,
		Guard:       res.Guard.String(),
		Elapsed:     out.Elapsed,
	}
	if out.HasExact {
		exact := out.Exact
		meta.Exact = &exact
	}
	return meta
}

// Save writes metadata.json and leaves.csv into a new run directory and
// returns the run id. Nothing is left on disk when either file fails.
func (s *Store) Save(out *experiment.Outcome) (string, error) {
	if out == nil || out.Result == nil {
		return "", fmt.Errorf("save: no result")
	}

	runID := fmt.Sprintf("%s_%d", out.Integrand, time.Now().UnixNano())

	meta, err := json.MarshalIndent(Metadata(runID, out), "", "  ")
	if err != nil {
		return "", fmt.Errorf("save %s: %w", runID, err)
	}
	var leaves bytes.Buffer
	if err := WriteLeavesCSV(&leaves, out.Result.Leaves); err != nil {
		return "", fmt.Errorf("save %s: %w", runID, err)
	}

	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeRunFiles(runDir, append(meta, '\n'), leaves.Bytes()); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRunFiles(runDir string, meta, leaves []byte) error {
	if err := os.WriteFile(filepath.Join(runDir, "metadata.json"), meta, 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(runDir, "leaves.csv"), leaves, 0644)
}

// List returns stored runs, newest first. Unreadable run directories are
// skipped.
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
		return runs[i].Timestamp.After(runs[j].Timestamp)
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
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadLeaves(runID string) ([]quad.Leaf, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "leaves.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []quad.Leaf{}, nil
	}

	leaves := make([]quad.Leaf, 0, len(records)-1)
	for i, rec := range records[1:] {
		leaf, err := parseLeaf(rec)
		if err != nil {
			return nil, fmt.Errorf("leaves.csv line %d: %w", i+2, err)
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

var leafHeader = []string{"a", "b", "value", "abs_err", "depth", "guard"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseLeaf(rec []string) (quad.Leaf, error) {
	if len(rec) != len(leafHeader) {
		return quad.Leaf{}, fmt.Errorf("want %d fields, got %d", len(leafHeader), len(rec))
	}
	var (
		f   [4]float64
		err error
	)
	for i := range f {
		if f[i], err = strconv.ParseFloat(rec[i], 64); err != nil {
			return quad.Leaf{}, err
		}
	}
	depth, err := strconv.Atoi(rec[4])
	if err != nil {
		return quad.Leaf{}, err
	}
	guard, err := strconv.Atoi(rec[5])
	if err != nil {
		return quad.Leaf{}, err
	}
	return quad.Leaf{A: f[0], B: f[1], Value: f[2], AbsErr: f[3], Depth: depth, Guard: quad.Guard(guard)}, nil
}
