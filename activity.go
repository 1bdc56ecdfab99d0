package runtastic

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const trackMetricsFeature = "track_metrics"

// Activity is one converted session. It is built once by Build and not
// modified afterwards.
type Activity struct {
	ID              string          `json:"id"`
	StartTime       time.Time       `json:"start_time"`
	Distance        string          `json:"distance_km"` // kilometres, 2 decimals
	Duration        string          `json:"duration"`    // HH:MM:SS
	DistanceMeters  float64         `json:"distance_m"`
	DurationMillis  int64           `json:"duration_ms"`
	ElevationSource ElevationSource `json:"elevation_source"`
	Stats           TrackStats      `json:"stats"`
	Points          []TrackPoint    `json:"-"`
	GPX             []byte          `json:"-"`
}

// TrackPoint is one merged position sample.
type TrackPoint struct {
	Latitude        float64
	Longitude       float64
	Elevation       float64
	TimestampMillis int64
	Time            time.Time
}

// Session is the subset of a Sport-sessions descriptor the converter reads.
// Pointer fields distinguish absent values from zero values.
type Session struct {
	ID          *string   `json:"id"`
	Duration    *int64    `json:"duration"`
	SportTypeID string    `json:"sport_type_id,omitempty"`
	StartTime   *int64    `json:"start_time,omitempty"`
	EndTime     *int64    `json:"end_time,omitempty"`
	Features    []Feature `json:"features"`
}

// Feature is one entry of a session's feature list.
type Feature struct {
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
}

type trackMetrics struct {
	Distance *float64 `json:"distance"`
}

type gpsRecord struct {
	Timestamp *int64   `json:"timestamp"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
}

type elevationRecord struct {
	Timestamp *int64   `json:"timestamp"`
	Elevation *float64 `json:"elevation"`
}

// Extract decodes the three JSON documents of one activity and builds it.
func Extract(sessionDoc, gpsDoc, elevationDoc []byte) (*Activity, error) {
	var session Session
	if err := json.Unmarshal(sessionDoc, &session); err != nil {
		return nil, fmt.Errorf("decode session document: %w", err)
	}
	gps, err := DecodeGPSSamples(gpsDoc)
	if err != nil {
		return nil, err
	}
	ele, err := DecodeElevationSamples(elevationDoc)
	if err != nil {
		return nil, err
	}
	return Build(session, gps, ele)
}

// DecodeGPSSamples parses a GPS-data document.
func DecodeGPSSamples(doc []byte) ([]GPSSample, error) {
	var records []gpsRecord
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, fmt.Errorf("decode gps document: %w", err)
	}
	out := make([]GPSSample, len(records))
	for i, r := range records {
		switch {
		case r.Timestamp == nil:
			return nil, &MissingFieldError{Field: fmt.Sprintf("gps[%d].timestamp", i)}
		case r.Latitude == nil:
			return nil, &MissingFieldError{Field: fmt.Sprintf("gps[%d].latitude", i)}
		case r.Longitude == nil:
			return nil, &MissingFieldError{Field: fmt.Sprintf("gps[%d].longitude", i)}
		case r.Altitude == nil:
			return nil, &MissingFieldError{Field: fmt.Sprintf("gps[%d].altitude", i)}
		}
		out[i] = GPSSample{
			Timestamp: *r.Timestamp,
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
			Altitude:  *r.Altitude,
		}
	}
	return out, nil
}

// DecodeElevationSamples parses an Elevation-data document.
func DecodeElevationSamples(doc []byte) ([]ElevationSample, error) {
	var records []elevationRecord
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, fmt.Errorf("decode elevation document: %w", err)
	}
	out := make([]ElevationSample, len(records))
	for i, r := range records {
		if r.Timestamp == nil {
			return nil, &MissingFieldError{Field: fmt.Sprintf("elevation[%d].timestamp", i)}
		}
		if r.Elevation == nil {
			return nil, &MissingFieldError{Field: fmt.Sprintf("elevation[%d].elevation", i)}
		}
		out[i] = ElevationSample{Timestamp: *r.Timestamp, Elevation: *r.Elevation}
	}
	return out, nil
}

// Build derives the summary fields of an activity, merges its track and
// renders the GPX document.
func Build(session Session, gps []GPSSample, ele []ElevationSample) (*Activity, error) {
	if session.ID == nil {
		return nil, &MissingFieldError{Field: "id"}
	}
	if len(gps) == 0 {
		return nil, ErrEmptyTrack
	}
	distanceM, err := trackDistance(session.Features)
	if err != nil {
		return nil, err
	}
	if session.Duration == nil {
		return nil, &MissingFieldError{Field: "duration"}
	}

	points, source := MergeTrack(gps, ele)
	act := &Activity{
		ID:              *session.ID,
		StartTime:       MillisToTime(gps[0].Timestamp),
		Distance:        FormatKilometres(distanceM),
		Duration:        FormatDuration(*session.Duration),
		DistanceMeters:  distanceM,
		DurationMillis:  *session.Duration,
		ElevationSource: source,
		Stats:           ComputeStats(points),
		Points:          points,
	}

	doc, err := MarshalGPX(act.ID, gps[0].Timestamp, points)
	if err != nil {
		return nil, fmt.Errorf("marshal gpx: %w", err)
	}
	act.GPX = doc
	return act, nil
}

func trackDistance(features []Feature) (float64, error) {
	for _, f := range features {
		if f.Type != trackMetricsFeature {
			continue
		}
		var m trackMetrics
		if len(f.Attributes) > 0 {
			if err := json.Unmarshal(f.Attributes, &m); err != nil {
				return 0, fmt.Errorf("decode %s attributes: %w", trackMetricsFeature, err)
			}
		}
		if m.Distance == nil {
			return 0, &MissingFieldError{Field: "features." + trackMetricsFeature + ".attributes.distance"}
		}
		return *m.Distance, nil
	}
	return 0, &MissingFeatureError{Type: trackMetricsFeature}
}

// FormatKilometres renders metres as kilometres with two decimals, rounding
// half away from zero.
func FormatKilometres(meters float64) string {
	km := math.Round(meters/10) / 100
	return fmt.Sprintf("%.2f", km)
}

// FormatDuration renders a millisecond count as HH:MM:SS. Sub-second
// remainders are truncated and hours are not wrapped at 24.
func FormatDuration(millis int64) string {
	secs := millis / 1000
	hh := secs / 3600
	mm := (secs % 3600) / 60
	ss := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
}
