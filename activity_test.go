package runtastic

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"
)

const (
	testSessionJSON = `{
  "id": "a1b2c3",
  "sport_type_id": "1",
  "duration": 3661000,
  "features": [
    {"type": "initial_values", "attributes": {"start_time": 1577934245000}},
    {"type": "track_metrics", "attributes": {"distance": 12345.678, "elevation_gain": 12}}
  ]
}`
	testGPSJSON = `[
  {"timestamp": 1577934245678, "latitude": 48.137154, "longitude": 11.576124, "altitude": 519.5},
  {"timestamp": 1577934246678, "latitude": 48.137254, "longitude": 11.576224, "altitude": 520}
]`
	testElevationJSON = `[
  {"timestamp": 1577934245678, "elevation": 521.25},
  {"timestamp": 1577934246678, "elevation": 522}
]`
)

func TestExtractBuildsActivity(t *testing.T) {
	act, err := Extract([]byte(testSessionJSON), []byte(testGPSJSON), []byte(testElevationJSON))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if act.ID != "a1b2c3" {
		t.Fatalf("ID = %q", act.ID)
	}
	wantStart := time.Date(2020, 1, 2, 3, 4, 5, 678e6, time.UTC)
	if !act.StartTime.Equal(wantStart) {
		t.Fatalf("StartTime = %s, want %s", act.StartTime, wantStart)
	}
	if act.Distance != "12.35" {
		t.Fatalf("Distance = %q, want 12.35", act.Distance)
	}
	if act.Duration != "01:01:01" {
		t.Fatalf("Duration = %q, want 01:01:01", act.Duration)
	}
	if act.ElevationSource != ElevationFromElevationData {
		t.Fatalf("ElevationSource = %q", act.ElevationSource)
	}
	if len(act.Points) != 2 || act.Points[0].Elevation != 521.25 {
		t.Fatalf("unexpected points: %+v", act.Points)
	}
	if act.Stats.Points != 2 || act.Stats.AscentMeters != 0.75 {
		t.Fatalf("unexpected stats: %+v", act.Stats)
	}
}

func TestExtractGPXDocument(t *testing.T) {
	act, err := Extract([]byte(testSessionJSON), []byte(testGPSJSON), []byte(testElevationJSON))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	doc := string(act.GPX)

	if !strings.HasPrefix(doc, xml.Header) {
		t.Fatalf("missing xml declaration: %.60q", doc)
	}
	for _, want := range []string{
		`creator="Garmin Connect"`,
		`version="1.1"`,
		`xsi:schemaLocation="http://www.topografix.com/GPX/1/1 http://www.topografix.com/GPX/11.xsd"`,
		`xmlns:ns3="http://www.garmin.com/xmlschemas/TrackPointExtension/v1"`,
		`xmlns="http://www.topografix.com/GPX/1/1"`,
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`,
		`xmlns:ns2="http://www.garmin.com/xmlschemas/GpxExtensions/v3"`,
		`<metadata><link href="connect.garmin.com"><text>Garmin Connect</text></link><time>2020-01-02T03:04:05.678+00:00</time></metadata>`,
		`<trk><name>a1b2c3</name><type>running</type><trkseg>`,
		`<trkpt lat="48.137154" lon="11.576124"><ele>521.25</ele><time>2020-01-02T03:04:05.678+00:00</time><extensions><ns3:TrackPointExtension></ns3:TrackPointExtension></extensions></trkpt>`,
		`<trkpt lat="48.137254" lon="11.576224"><ele>522</ele><time>2020-01-02T03:04:06.678+00:00</time>`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("gpx document missing %s\n%s", want, doc)
		}
	}
	if n := strings.Count(doc, "<trkpt "); n != 2 {
		t.Fatalf("trkpt count = %d, want 2", n)
	}
}

func TestExtractFallsBackToGPSAltitude(t *testing.T) {
	ele := `[{"timestamp": 1577934245678, "elevation": 1}]`
	act, err := Extract([]byte(testSessionJSON), []byte(testGPSJSON), []byte(ele))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if act.ElevationSource != ElevationFromGPS {
		t.Fatalf("ElevationSource = %q, want gps", act.ElevationSource)
	}
	if !strings.Contains(string(act.GPX), "<ele>519.5</ele>") {
		t.Fatalf("expected gps altitude in document:\n%s", act.GPX)
	}
}

func TestExtractErrors(t *testing.T) {
	cases := []struct {
		name    string
		session string
		gps     string
		check   func(error) bool
	}{
		{
			name:    "missing id",
			session: `{"duration": 1000, "features": [{"type": "track_metrics", "attributes": {"distance": 1}}]}`,
			gps:     testGPSJSON,
			check: func(err error) bool {
				var mf *MissingFieldError
				return errors.As(err, &mf) && mf.Field == "id"
			},
		},
		{
			name:    "missing track metrics",
			session: `{"id": "x", "duration": 1000, "features": [{"type": "initial_values", "attributes": {}}]}`,
			gps:     testGPSJSON,
			check: func(err error) bool {
				var mf *MissingFeatureError
				return errors.As(err, &mf) && mf.Type == "track_metrics"
			},
		},
		{
			name:    "track metrics without distance",
			session: `{"id": "x", "duration": 1000, "features": [{"type": "track_metrics", "attributes": {}}]}`,
			gps:     testGPSJSON,
			check: func(err error) bool {
				var mf *MissingFieldError
				return errors.As(err, &mf) && strings.HasSuffix(mf.Field, ".distance")
			},
		},
		{
			name:    "missing duration",
			session: `{"id": "x", "features": [{"type": "track_metrics", "attributes": {"distance": 1}}]}`,
			gps:     testGPSJSON,
			check: func(err error) bool {
				var mf *MissingFieldError
				return errors.As(err, &mf) && mf.Field == "duration"
			},
		},
		{
			name:    "empty gps",
			session: testSessionJSON,
			gps:     `[]`,
			check:   func(err error) bool { return errors.Is(err, ErrEmptyTrack) },
		},
		{
			name:    "gps sample without altitude",
			session: testSessionJSON,
			gps:     `[{"timestamp": 1, "latitude": 1, "longitude": 2}]`,
			check: func(err error) bool {
				var mf *MissingFieldError
				return errors.As(err, &mf) && mf.Field == "gps[0].altitude"
			},
		},
		{
			name:    "malformed session",
			session: `{"id": `,
			gps:     testGPSJSON,
			check: func(err error) bool {
				return err != nil && strings.Contains(err.Error(), "decode session document")
			},
		},
	}
	for _, tc := range cases {
		_, err := Extract([]byte(tc.session), []byte(tc.gps), []byte(`[]`))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.check(err) {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestFormatKilometres(t *testing.T) {
	cases := map[float64]string{
		12345.678: "12.35",
		0:         "0.00",
		1005:      "1.01",
		999.4:     "1.00",
		42195:     "42.20",
	}
	for meters, want := range cases {
		if got := FormatKilometres(meters); got != want {
			t.Fatalf("FormatKilometres(%v) = %q, want %q", meters, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{
		3_661_000:   "01:01:01",
		90_000_000:  "25:00:00",
		0:           "00:00:00",
		59_999:      "00:00:59",
		360_000_000: "100:00:00",
	}
	for ms, want := range cases {
		if got := FormatDuration(ms); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", ms, got, want)
		}
	}
}
