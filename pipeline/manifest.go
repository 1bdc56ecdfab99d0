package pipeline

import (
	"encoding/json"
	"time"

	runtastic "github.com/lucasjlepore/runtastic-gpx"
)

func buildManifest(source SourceInfo, artifacts []string, activities []*runtastic.Activity, skipped []Skip) Manifest {
	entries := make([]Entry, 0, len(activities))
	for _, act := range activities {
		entries = append(entries, Entry{
			ID:              act.ID,
			StartUTC:        runtastic.FormatTimestamp(act.StartTime.UnixMilli()),
			DistanceKM:      act.Distance,
			Duration:        act.Duration,
			ElevationSource: string(act.ElevationSource),
			Points:          act.Stats.Points,
			TrackLengthM:    act.Stats.LengthMeters,
			AscentM:         act.Stats.AscentMeters,
			DescentM:        act.Stats.DescentMeters,
		})
	}
	return Manifest{
		FormatVersion: ManifestFormatVersion,
		GeneratedAt:   time.Now().UTC(),
		Source:        source,
		Artifacts:     artifacts,
		Activities:    entries,
		Skipped:       skipped,
	}
}

func buildSummaryRows(activities []*runtastic.Activity) []SummaryRow {
	rows := make([]SummaryRow, 0, len(activities))
	for _, act := range activities {
		rows = append(rows, SummaryRow{
			ID:              act.ID,
			StartUTC:        runtastic.FormatTimestamp(act.StartTime.UnixMilli()),
			StartUnixMS:     act.StartTime.UnixMilli(),
			DistanceKM:      act.DistanceMeters / 1000.0,
			DurationS:       float64(act.DurationMillis) / 1000.0,
			Points:          int64(act.Stats.Points),
			ElevationSource: string(act.ElevationSource),
			TrackLengthM:    act.Stats.LengthMeters,
			AscentM:         act.Stats.AscentMeters,
			DescentM:        act.Stats.DescentMeters,
		})
	}
	return rows
}

// marshalJSON renders indented JSON terminated by a newline.
func marshalJSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	out = append(out, '\n')
	return out, nil
}
