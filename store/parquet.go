package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

func compression() parquet.WriterOption {
	return parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression})
}

// batchName is unique per call: the timestamp orders files and the uuid
// suffix keeps concurrent writers apart.
func batchName(prefix string) string {
	return fmt.Sprintf("%s_%d_%s.parquet", prefix, time.Now().UnixNano(), uuid.NewString()[:8])
}

// WriteAtomic writes rows into outDir/tmp and then renames the file into
// outDir. It returns the final path.
func WriteAtomic[T any](outDir, prefix, schema string, rows []T) (string, error) {
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := batchName(prefix)
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")

	if err := parquet.WriteFile(tmpPath, rows,
		compression(),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// WriteSummaries writes one summaries file.
func WriteSummaries(outDir string, rows []GameSummary) (string, error) {
	return WriteAtomic(outDir, "summary", SchemaSummary, rows)
}

// ReadTraces loads every trace row from one file.
func ReadTraces(path string) ([]TraceRow, error) {
	rows, err := parquet.ReadFile[TraceRow](path)
	if err != nil {
		return nil, fmt.Errorf("read traces %s: %w", path, err)
	}
	return rows, nil
}

// ReadSummaries loads every summary from the summary files in dir.
func ReadSummaries(dir string) ([]GameSummary, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "summary_*.parquet"))
	if err != nil {
		return nil, err
	}
	var out []GameSummary
	for _, p := range paths {
		rows, err := parquet.ReadFile[GameSummary](p)
		if err != nil {
			return nil, fmt.Errorf("read summaries %s: %w", p, err)
		}
		out = append(out, rows...)
	}
	return out, nil
}
