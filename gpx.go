package runtastic

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

const (
	gpxCreator        = "Garmin Connect"
	gpxVersion        = "1.1"
	gpxSchemaLocation = "http://www.topografix.com/GPX/1/1 http://www.topografix.com/GPX/11.xsd"
	gpxNamespace      = "http://www.topografix.com/GPX/1/1"
	xsiNamespace      = "http://www.w3.org/2001/XMLSchema-instance"
	tpxNamespace      = "http://www.garmin.com/xmlschemas/TrackPointExtension/v1"
	gpxxNamespace     = "http://www.garmin.com/xmlschemas/GpxExtensions/v3"

	metadataLinkHref = "connect.garmin.com"
	metadataLinkText = "Garmin Connect"

	// TrackType is the activity label written into every track.
	TrackType = "running"
)

type gpxDocument struct {
	XMLName   xml.Name    `xml:"gpx"`
	Creator   string      `xml:"creator,attr"`
	Version   string      `xml:"version,attr"`
	SchemaLoc string      `xml:"xsi:schemaLocation,attr"`
	XmlnsNS3  string      `xml:"xmlns:ns3,attr"`
	Xmlns     string      `xml:"xmlns,attr"`
	XmlnsXsi  string      `xml:"xmlns:xsi,attr"`
	XmlnsNS2  string      `xml:"xmlns:ns2,attr"`
	Metadata  gpxMetadata `xml:"metadata"`
	Track     gpxTrack    `xml:"trk"`
}

type gpxMetadata struct {
	Link gpxLink `xml:"link"`
	Time string  `xml:"time"`
}

type gpxLink struct {
	Href string `xml:"href,attr"`
	Text string `xml:"text"`
}

type gpxTrack struct {
	Name    string     `xml:"name"`
	Type    string     `xml:"type"`
	Segment gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat        string        `xml:"lat,attr"`
	Lon        string        `xml:"lon,attr"`
	Elevation  string        `xml:"ele"`
	Time       string        `xml:"time"`
	Extensions gpxExtensions `xml:"extensions"`
}

type gpxExtensions struct {
	TPX struct{} `xml:"ns3:TrackPointExtension"`
}

// MarshalGPX renders one track as a GPX 1.1 document with the Garmin
// extension namespaces declared. startMillis becomes the metadata time.
func MarshalGPX(name string, startMillis int64, points []TrackPoint) ([]byte, error) {
	doc := gpxDocument{
		Creator:   gpxCreator,
		Version:   gpxVersion,
		SchemaLoc: gpxSchemaLocation,
		XmlnsNS3:  tpxNamespace,
		Xmlns:     gpxNamespace,
		XmlnsXsi:  xsiNamespace,
		XmlnsNS2:  gpxxNamespace,
		Metadata: gpxMetadata{
			Link: gpxLink{Href: metadataLinkHref, Text: metadataLinkText},
			Time: FormatTimestamp(startMillis),
		},
		Track: gpxTrack{
			Name: name,
			Type: TrackType,
		},
	}
	doc.Track.Segment.Points = make([]gpxPoint, len(points))
	for i, p := range points {
		doc.Track.Segment.Points[i] = gpxPoint{
			Lat:       formatCoord(p.Latitude),
			Lon:       formatCoord(p.Longitude),
			Elevation: formatCoord(p.Elevation),
			Time:      FormatTimestamp(p.TimestampMillis),
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
