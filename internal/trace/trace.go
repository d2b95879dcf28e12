// Package trace records unit trajectories of a match, one row per unit per
// effective tick, and stores them as Parquet for offline analysis. Traces
// are write-once; nothing is ever loaded back into a battle.
package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"gridbattle/internal/battle"
)

const schemaName = "unit_trajectory_v1"

// Row is one unit at one tick.
type Row struct {
	MatchID string  `parquet:"match_id,dict"`
	Tick    int32   `parquet:"tick"`
	Team    int32   `parquet:"team"`
	UnitID  int32   `parquet:"unit_id"`
	Class   string  `parquet:"class,dict"`
	X       float64 `parquet:"x"`
	Y       float64 `parquet:"y"`
	Health  int32   `parquet:"health"`
	InRange bool    `parquet:"in_range"`
}

// Recorder accumulates rows from snapshots. Feed it after every effective
// tick; snapshots with a tick number already seen are ignored.
type Recorder struct {
	matchID  string
	lastTick int
	rows     []Row
}

func NewRecorder(matchID string) *Recorder {
	return &Recorder{matchID: matchID, lastTick: -1}
}

func (r *Recorder) Record(s battle.Snapshot) {
	if s.Ticks == r.lastTick {
		return
	}
	r.lastTick = s.Ticks
	for _, u := range s.Units {
		r.rows = append(r.rows, Row{
			MatchID: r.matchID,
			Tick:    int32(s.Ticks),
			Team:    int32(u.Team),
			UnitID:  int32(u.ID),
			Class:   u.Class.String(),
			X:       u.X,
			Y:       u.Y,
			Health:  int32(u.Health),
			InRange: u.InRange,
		})
	}
}

func (r *Recorder) Rows() []Row { return r.rows }

// WriteFile writes rows to outPath through a temp file and an atomic rename,
// so readers never observe a partial trace.
func WriteFile(outPath string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadFile loads every row of a trace.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := parquet.NewGenericReader[Row](f)
	defer reader.Close()

	out := make([]Row, 0, reader.NumRows())
	buf := make([]Row, 256)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet %s: %w", path, err)
		}
	}
}
