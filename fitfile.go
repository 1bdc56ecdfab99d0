package runtastic

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/tormoder/fit"
)

// EncodeFIT writes an activity as a FIT activity file: one record per track
// point plus a single lap, session and activity message.
func EncodeFIT(act *Activity) ([]byte, error) {
	if act == nil {
		return nil, fmt.Errorf("activity is required")
	}
	if len(act.Points) == 0 {
		return nil, ErrEmptyTrack
	}
	if act.StartTime.Before(fitEpoch) {
		return nil, fmt.Errorf("start time %s predates the fit epoch", act.StartTime.Format(time.RFC3339))
	}

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	if err != nil {
		return nil, fmt.Errorf("new fit file: %w", err)
	}
	file.FileId.TimeCreated = act.StartTime

	activity, err := file.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity accessor: %w", err)
	}

	start := act.StartTime
	end := act.Points[len(act.Points)-1].Time
	elapsedMS := fitUint32(float64(act.DurationMillis))
	distanceCM := fitUint32(math.Round(act.DistanceMeters * 100))

	startEvent := fit.NewEventMsg()
	startEvent.Timestamp = start
	startEvent.Event = fit.EventTimer
	startEvent.EventType = fit.EventTypeStart
	activity.Events = append(activity.Events, startEvent)

	for _, p := range act.Points {
		rec := fit.NewRecordMsg()
		rec.Timestamp = p.Time
		rec.PositionLat = fit.NewLatitudeDegrees(p.Latitude)
		rec.PositionLong = fit.NewLongitudeDegrees(p.Longitude)
		rec.Altitude = fitAltitude(p.Elevation)
		activity.Records = append(activity.Records, rec)
	}

	stopEvent := fit.NewEventMsg()
	stopEvent.Timestamp = end
	stopEvent.Event = fit.EventTimer
	stopEvent.EventType = fit.EventTypeStopAll
	activity.Events = append(activity.Events, stopEvent)

	lap := fit.NewLapMsg()
	lap.Timestamp = end
	lap.StartTime = start
	lap.TotalElapsedTime = elapsedMS
	lap.TotalTimerTime = elapsedMS
	lap.TotalDistance = distanceCM
	lap.Sport = fit.SportRunning
	activity.Laps = append(activity.Laps, lap)

	session := fit.NewSessionMsg()
	session.Timestamp = end
	session.StartTime = start
	session.TotalElapsedTime = elapsedMS
	session.TotalTimerTime = elapsedMS
	session.TotalDistance = distanceCM
	session.Sport = fit.SportRunning
	session.NumLaps = 1
	activity.Sessions = append(activity.Sessions, session)

	summary := fit.NewActivityMsg()
	summary.Timestamp = end
	summary.TotalTimerTime = elapsedMS
	summary.NumSessions = 1
	activity.Activity = summary

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("encode fit: %w", err)
	}
	return buf.Bytes(), nil
}

// fitAltitude applies the record altitude scale (5) and offset (500 m).
func fitAltitude(meters float64) uint16 {
	raw := math.Round((meters + 500) * 5)
	if raw < 0 {
		return 0
	}
	if raw >= math.MaxUint16 {
		return math.MaxUint16 - 1
	}
	return uint16(raw)
}

func fitUint32(v float64) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= math.MaxUint32 {
		return math.MaxUint32 - 1
	}
	return uint32(v)
}

// fitEpoch is the FIT time origin. Instants before it cannot be encoded.
var fitEpoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)
