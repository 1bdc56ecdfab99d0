package pipeline

import (
	"bytes"
	"html/template"

	runtastic "github.com/lucasjlepore/runtastic-gpx"
)

// SummaryDateLayout formats the datetime column of the HTML index.
const SummaryDateLayout = "02-01-2006 15:04"

var summaryHeader = []string{"session id", "datetime", "distance (km)", "duration"}

var summaryTemplate = template.Must(template.New(SummaryEntry).Parse(
	`<html><body><table style="border-collapse: collapse;">` +
		`<tr>{{range .Header}}<th style="border: 1px solid black; padding: 2px 10px;">{{.}}</th>{{end}}</tr>` +
		`{{range .Rows}}<tr>{{range .}}<td style="border: 1px solid black; padding: 2px 10px;">{{.}}</td>{{end}}</tr>{{end}}` +
		`</table></body></html>`,
))

// RenderSummary renders the activity index, one row per activity in the
// order given.
func RenderSummary(activities []*runtastic.Activity) ([]byte, error) {
	rows := make([][]string, 0, len(activities))
	for _, act := range activities {
		rows = append(rows, []string{
			act.ID,
			act.StartTime.UTC().Format(SummaryDateLayout),
			act.Distance,
			act.Duration,
		})
	}

	var buf bytes.Buffer
	err := summaryTemplate.Execute(&buf, struct {
		Header []string
		Rows   [][]string
	}{summaryHeader, rows})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
