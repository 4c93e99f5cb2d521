// Package load reads flight records from CSV, JSON or SQLite sources into a
// flights.Dataset. File sources may be LZ4 frame compressed (".lz4" suffix).
package load

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

// Format names a dataset encoding.
type Format string

// Formats.
const (
	FormatAuto   Format = "auto"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// lz4Ext marks LZ4 frame compressed files.
const lz4Ext = ".lz4"

// Sentinel loader errors.
var (
	// ErrUnknownFormat indicates a format name or file extension that has no reader.
	ErrUnknownFormat = errors.New("unknown dataset format")
	// ErrMissingColumn indicates a required column absent from the source.
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidValue indicates a cell that does not parse as its column type.
	ErrInvalidValue = errors.New("invalid value")
	// ErrSchema indicates a JSON document that does not match the record schema.
	ErrSchema = errors.New("dataset does not match schema")
	// ErrCompressedSQLite indicates an LZ4 suffix on a SQLite database.
	ErrCompressedSQLite = errors.New("sqlite datasets cannot be lz4 compressed")
)

// ParseFormat maps a format name to a Format. The empty string is FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatSQLite:
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat infers the format from the file extension, ignoring a
// trailing ".lz4".
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(path), lz4Ext)))

	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: extension %q of %s", ErrUnknownFormat, ext, path)
	}
}

// Options controls Open.
type Options struct {
	// Format selects the reader. Empty or FormatAuto detects it from the path.
	Format Format

	// Table is the SQLite table holding the records.
	Table string

	// Logger receives a summary line per load. Nil uses slog default.
	Logger *slog.Logger
}

// Open reads every record at path and builds the dataset. Each record is
// validated; the first invalid one aborts the load.
func Open(ctx context.Context, path string, opts Options) (*flights.Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	format := opts.Format
	if format == "" || format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}

		format = detected
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return nil, fmt.Errorf("open dataset: %w", statErr)
	}

	records, readErr := read(ctx, path, format, opts.Table)
	if readErr != nil {
		return nil, fmt.Errorf("load %s dataset %s: %w", format, path, readErr)
	}

	for i := range records {
		err := records[i].Validate()
		if err != nil {
			return nil, fmt.Errorf("load %s: record %d: %w", path, i+1, err)
		}
	}

	ds := flights.NewDataset(records)

	logger.InfoContext(ctx, "dataset loaded",
		"path", path,
		"format", string(format),
		"size", humanize.Bytes(uint64(max(info.Size(), 0))),
		"records", humanize.Comma(int64(ds.Len())),
		"years", len(ds.Years()),
	)

	return ds, nil
}

func read(ctx context.Context, path string, format Format, table string) ([]flights.Record, error) {
	compressed := strings.HasSuffix(strings.ToLower(path), lz4Ext)

	if format == FormatSQLite {
		if compressed {
			return nil, ErrCompressedSQLite
		}

		return ReadSQLite(ctx, path, table)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		r = lz4.NewReader(f)
	}

	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
