package pipeline

import (
	"log/slog"
	"time"
)

// Options configures a file-to-file conversion run.
type Options struct {
	SourcePath string
	OutputPath string // derived from SourcePath when empty
	Logger     *slog.Logger

	WriteFIT      bool // <id>.fit next to each <id>.gpx
	WriteParquet  bool // activities.parquet
	WriteManifest bool // manifest.json
}

// ConvertOptions controls Convert. The zero value produces GPX entries and
// the HTML index only.
type ConvertOptions struct {
	Logger *slog.Logger

	WriteFIT      bool
	WriteParquet  bool
	WriteManifest bool

	// Source describes the archive for the manifest; optional.
	Source SourceInfo
}

// BytesOptions configures an in-memory conversion.
type BytesOptions struct {
	SourceFileName string
	ArchiveData    []byte
	Logger         *slog.Logger
	WriteFIT       bool
	WriteParquet   bool
	WriteManifest  bool
}

// SourceInfo identifies the archive being converted.
type SourceInfo struct {
	FileName  string `json:"file_name"`
	SHA256    string `json:"sha256,omitempty"`
	SizeBytes int64  `json:"size_bytes"`
}

// Report summarises one Convert pass.
type Report struct {
	// Converted lists activity ids in start-time order.
	Converted []string `json:"converted"`
	Skipped   []Skip   `json:"skipped,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	// Entries lists every entry written to the destination, in write order.
	Entries []string `json:"entries"`
}

// Skip records one activity that could not be converted.
type Skip struct {
	File   string `json:"file"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason"`
}

// Result is returned by Run.
type Result struct {
	SourcePath string `json:"source_path"`
	OutputPath string `json:"output_path"`
	Report
}

// BytesResult is returned by RunBytes.
type BytesResult struct {
	Archive []byte
	Report
}

// SummaryRow is one row of activities.parquet.
type SummaryRow struct {
	ID              string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	StartUTC        string  `parquet:"name=start_utc, type=BYTE_ARRAY, convertedtype=UTF8"`
	StartUnixMS     int64   `parquet:"name=start_unix_ms, type=INT64"`
	DistanceKM      float64 `parquet:"name=distance_km, type=DOUBLE"`
	DurationS       float64 `parquet:"name=duration_s, type=DOUBLE"`
	Points          int64   `parquet:"name=points, type=INT64"`
	ElevationSource string  `parquet:"name=elevation_source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TrackLengthM    float64 `parquet:"name=track_length_m, type=DOUBLE"`
	AscentM         float64 `parquet:"name=ascent_m, type=DOUBLE"`
	DescentM        float64 `parquet:"name=descent_m, type=DOUBLE"`
}

// Manifest is written as manifest.json.
type Manifest struct {
	FormatVersion string     `json:"format_version"`
	GeneratedAt   time.Time  `json:"generated_at"`
	Source        SourceInfo `json:"source"`
	Artifacts     []string   `json:"artifacts"`
	Activities    []Entry    `json:"activities"`
	Skipped       []Skip     `json:"skipped,omitempty"`
}

// Entry is the manifest view of one converted activity.
type Entry struct {
	ID              string  `json:"id"`
	StartUTC        string  `json:"start_utc"`
	DistanceKM      string  `json:"distance_km"`
	Duration        string  `json:"duration"`
	ElevationSource string  `json:"elevation_source"`
	Points          int     `json:"points"`
	TrackLengthM    float64 `json:"track_length_m"`
	AscentM         float64 `json:"ascent_m"`
	DescentM        float64 `json:"descent_m"`
}
