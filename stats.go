package runtastic

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle lengths.
const EarthRadiusMeters = 6371000.0

// TrackStats summarises a merged track. None of these values feed the GPX
// document or the HTML index.
type TrackStats struct {
	Points         int     `json:"points"`
	LengthMeters   float64 `json:"length_m"`
	AscentMeters   float64 `json:"ascent_m"`
	DescentMeters  float64 `json:"descent_m"`
	ElapsedSeconds float64 `json:"elapsed_s"`
}

// ComputeStats walks the track once in point order.
func ComputeStats(points []TrackPoint) TrackStats {
	stats := TrackStats{Points: len(points)}
	if len(points) < 2 {
		return stats
	}

	prev := s2.LatLngFromDegrees(points[0].Latitude, points[0].Longitude)
	for i := 1; i < len(points); i++ {
		cur := s2.LatLngFromDegrees(points[i].Latitude, points[i].Longitude)
		stats.LengthMeters += prev.Distance(cur).Radians() * EarthRadiusMeters
		prev = cur

		delta := points[i].Elevation - points[i-1].Elevation
		if delta > 0 {
			stats.AscentMeters += delta
		} else {
			stats.DescentMeters -= delta
		}
	}
	stats.ElapsedSeconds = float64(points[len(points)-1].TimestampMillis-points[0].TimestampMillis) / 1000.0
	return stats
}
