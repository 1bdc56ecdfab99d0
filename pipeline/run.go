package pipeline

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	runtastic "github.com/lucasjlepore/runtastic-gpx"
	"github.com/lucasjlepore/runtastic-gpx/ordered"
)

const (
	sessionsDir  = "Sport-sessions"
	gpsDir       = sessionsDir + "/GPS-data"
	elevationDir = sessionsDir + "/Elevation-data"

	// SummaryEntry is the HTML index written after all activities.
	SummaryEntry  = "activities.html"
	ParquetEntry  = "activities.parquet"
	ManifestEntry = "manifest.json"

	// ManifestFormatVersion identifies the manifest.json schema.
	ManifestFormatVersion = "runtastic_gpx_v1"

	outputSuffix = "_GPX.zip"
)

// OutputPath derives the destination archive path: a trailing ".zip" is
// removed (exact, case-sensitive match) and "_GPX.zip" appended.
func OutputPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, ".zip") + outputSuffix
}

// Run converts the export archive at opts.SourcePath into a GPX archive.
// Failing to open the source or create the destination is fatal; activities
// that cannot be converted are skipped and listed in the result.
func Run(opts Options) (res *Result, err error) {
	if strings.TrimSpace(opts.SourcePath) == "" {
		return nil, fmt.Errorf("source path is required")
	}
	outPath := opts.OutputPath
	if strings.TrimSpace(outPath) == "" {
		outPath = OutputPath(opts.SourcePath)
	}

	src, err := zip.OpenReader(opts.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("open source archive: %w", err)
	}
	defer src.Close()

	info := SourceInfo{FileName: filepath.Base(opts.SourcePath)}
	if opts.WriteManifest {
		info, err = describeFile(opts.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("hash source archive: %w", err)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create destination archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close destination archive: %w", cerr)
			res = nil
		}
	}()

	zw := zip.NewWriter(out)
	report, err := Convert(&src.Reader, zw, ConvertOptions{
		Logger:        opts.Logger,
		WriteFIT:      opts.WriteFIT,
		WriteParquet:  opts.WriteParquet,
		WriteManifest: opts.WriteManifest,
		Source:        info,
	})
	if err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize destination archive: %w", err)
	}

	return &Result{
		SourcePath: opts.SourcePath,
		OutputPath: outPath,
		Report:     *report,
	}, nil
}

// RunBytes performs the same conversion as Run without touching the
// filesystem.
func RunBytes(opts BytesOptions) (*BytesResult, error) {
	if len(opts.ArchiveData) == 0 {
		return nil, fmt.Errorf("archive bytes are required")
	}
	src, err := zip.NewReader(bytes.NewReader(opts.ArchiveData), int64(len(opts.ArchiveData)))
	if err != nil {
		return nil, fmt.Errorf("open source archive: %w", err)
	}

	sum := sha256.Sum256(opts.ArchiveData)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	report, err := Convert(src, zw, ConvertOptions{
		Logger:        opts.Logger,
		WriteFIT:      opts.WriteFIT,
		WriteParquet:  opts.WriteParquet,
		WriteManifest: opts.WriteManifest,
		Source: SourceInfo{
			FileName:  opts.SourceFileName,
			SHA256:    hex.EncodeToString(sum[:]),
			SizeBytes: int64(len(opts.ArchiveData)),
		},
	})
	if err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize destination archive: %w", err)
	}
	return &BytesResult{Archive: buf.Bytes(), Report: *report}, nil
}

// Convert reads every activity from src and writes the converted entries to
// dst. It does not close dst.
//
// Activities are discovered through their Sport-sessions/GPS-data/*.json
// entries, in archive order. Any per-activity failure (a missing sibling
// entry, unparseable JSON, a missing field) skips that activity only.
// Errors writing to dst abort the conversion.
func Convert(src *zip.Reader, dst *zip.Writer, opts ConvertOptions) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries := make(map[string]*zip.File, len(src.File))
	for _, f := range src.File {
		entries[f.Name] = f
	}

	index := ordered.New(func(a, b *runtastic.Activity) bool {
		return a.StartTime.Before(b.StartTime)
	})
	report := &Report{}

	for _, f := range src.File {
		if path.Dir(f.Name) != gpsDir || !strings.HasSuffix(f.Name, ".json") {
			continue
		}

		act, err := loadActivity(entries, f.Name)
		if err != nil {
			skip := skipFor(f.Name, err)
			report.Skipped = append(report.Skipped, skip)
			if skip.Key != "" {
				logger.Warn("skipping activity", "file", f.Name, "missing", skip.Key)
			} else {
				logger.Warn("skipping activity", "file", f.Name, "error", err)
			}
			continue
		}

		name := act.ID + ".gpx"
		if err := writeEntry(dst, name, act.GPX, act.StartTime); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		report.Entries = append(report.Entries, name)

		if opts.WriteFIT {
			if err := writeFIT(dst, act, report); err != nil {
				return nil, err
			}
		}

		index.Insert(act)
		logger.Debug("converted activity", "id", act.ID, "points", len(act.Points), "elevation", act.ElevationSource)
	}

	activities := index.Values()
	for _, act := range activities {
		report.Converted = append(report.Converted, act.ID)
	}
	modTime := time.Time{}
	if n := len(activities); n > 0 {
		modTime = activities[n-1].StartTime
	}

	html, err := RenderSummary(activities)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", SummaryEntry, err)
	}
	if err := writeEntry(dst, SummaryEntry, html, modTime); err != nil {
		return nil, fmt.Errorf("write %s: %w", SummaryEntry, err)
	}
	report.Entries = append(report.Entries, SummaryEntry)

	if opts.WriteParquet {
		data, err := marshalSummaryParquet(buildSummaryRows(activities))
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", ParquetEntry, err)
		}
		if err := writeEntry(dst, ParquetEntry, data, modTime); err != nil {
			return nil, fmt.Errorf("write %s: %w", ParquetEntry, err)
		}
		report.Entries = append(report.Entries, ParquetEntry)
	}

	if opts.WriteManifest {
		artifacts := append(append([]string(nil), report.Entries...), ManifestEntry)
		data, err := marshalJSON(buildManifest(opts.Source, artifacts, activities, report.Skipped))
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", ManifestEntry, err)
		}
		if err := writeEntry(dst, ManifestEntry, data, modTime); err != nil {
			return nil, fmt.Errorf("write %s: %w", ManifestEntry, err)
		}
		report.Entries = append(report.Entries, ManifestEntry)
	}

	return report, nil
}

func loadActivity(entries map[string]*zip.File, gpsEntry string) (*runtastic.Activity, error) {
	base := path.Base(gpsEntry)
	keys := [3]string{
		sessionsDir + "/" + base,
		gpsDir + "/" + base,
		elevationDir + "/" + base,
	}
	var docs [3][]byte
	for i, key := range keys {
		zf, ok := entries[key]
		if !ok {
			return nil, &runtastic.MissingEntryError{Key: key, File: gpsEntry}
		}
		data, err := readEntry(zf)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		docs[i] = data
	}
	return runtastic.Extract(docs[0], docs[1], docs[2])
}

func writeFIT(dst *zip.Writer, act *runtastic.Activity, report *Report) error {
	data, err := runtastic.EncodeFIT(act)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: fit export skipped: %v", act.ID, err))
		return nil
	}
	name := act.ID + ".fit"
	if err := writeEntry(dst, name, data, act.StartTime); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	report.Entries = append(report.Entries, name)
	return nil
}

func skipFor(file string, err error) Skip {
	skip := Skip{File: file, Reason: err.Error()}
	var missing *runtastic.MissingEntryError
	if errors.As(err, &missing) {
		skip.Key = missing.Key
	}
	return skip
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func writeEntry(zw *zip.Writer, name string, data []byte, modTime time.Time) error {
	h := &zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	}
	if !modTime.IsZero() {
		h.Modified = modTime
	}
	w, err := zw.CreateHeader(h)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func describeFile(p string) (SourceInfo, error) {
	f, err := os.Open(p)
	if err != nil {
		return SourceInfo{}, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return SourceInfo{}, err
	}
	return SourceInfo{
		FileName:  filepath.Base(p),
		SHA256:    hex.EncodeToString(h.Sum(nil)),
		SizeBytes: n,
	}, nil
}
