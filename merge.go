package runtastic

// ElevationSource records which stream supplied the elevations of a track.
type ElevationSource string

const (
	ElevationFromElevationData ElevationSource = "elevation"
	ElevationFromGPS           ElevationSource = "gps"
)

// GPSSample is one entry of a Sport-sessions/GPS-data document.
type GPSSample struct {
	Timestamp int64 // epoch ms
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// ElevationSample is one entry of a Sport-sessions/Elevation-data document.
type ElevationSample struct {
	Timestamp int64 // epoch ms
	Elevation float64
}

// MergeTrack builds one track point per GPS sample, in GPS order.
//
// The elevation stream is used only when it lines up with the GPS stream
// exactly: same length and the same timestamp at every index. A single
// mismatch anywhere makes the whole track fall back to the GPS altitude.
func MergeTrack(gps []GPSSample, ele []ElevationSample) ([]TrackPoint, ElevationSource) {
	source := ElevationFromGPS
	if aligned(gps, ele) {
		source = ElevationFromElevationData
	}

	points := make([]TrackPoint, len(gps))
	for i, s := range gps {
		elevation := s.Altitude
		if source == ElevationFromElevationData {
			elevation = ele[i].Elevation
		}
		points[i] = TrackPoint{
			Latitude:        s.Latitude,
			Longitude:       s.Longitude,
			Elevation:       elevation,
			TimestampMillis: s.Timestamp,
			Time:            MillisToTime(s.Timestamp),
		}
	}
	return points, source
}

func aligned(gps []GPSSample, ele []ElevationSample) bool {
	if len(gps) != len(ele) {
		return false
	}
	for i := range gps {
		if gps[i].Timestamp != ele[i].Timestamp {
			return false
		}
	}
	return true
}
