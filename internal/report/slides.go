package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

var slidesTemplate = template.Must(template.New("slides").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Known Slides - Sitka, AK</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.4em 0.8em; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>Known Slides near Sitka, AK</h1>
<p>{{len .}} recorded slide events, most recent first. Times are Alaska local.</p>
<table>
<tr><th>Name</th><th>Time (AK)</th><th>Location</th><th>Fatalities</th><th>Power outage</th><th>Links</th></tr>
{{range .}}<tr>
<td>{{.Name}}</td>
<td>{{.LocalTime}}</td>
<td>{{.Location}}</td>
<td>{{.Fatalities}}</td>
<td>{{.PowerOutage}}</td>
<td>{{range $i, $u := .URLs}}{{if $i}} | {{end}}<a href="{{$u}}">source</a>{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

// slideRow flattens a SlideEvent for the template.
type slideRow struct {
	Name        string
	LocalTime   string
	Location    string
	Fatalities  string
	PowerOutage string
	URLs        []string
}

// WriteKnownSlides writes the known-slides HTML page and a JSON mirror,
// most recent slide first. Returns the paths written.
func (w *Writer) WriteKnownSlides(slides []domain.SlideEvent) ([]string, error) {
	ordered := make([]domain.SlideEvent, len(slides))
	copy(ordered, slides)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Time.After(ordered[j].Time)
	})

	rows := make([]slideRow, len(ordered))
	for i, slide := range ordered {
		row := slideRow{
			Name:        slide.Name,
			LocalTime:   slide.Time.In(domain.Alaska).Format("1/2/2006 15:04"),
			Location:    slide.Location,
			Fatalities:  "unknown",
			PowerOutage: "unknown",
			URLs:        slide.URLs,
		}
		if slide.Fatalities != nil {
			row.Fatalities = fmt.Sprintf("%d", *slide.Fatalities)
		}
		if slide.PowerOutage != nil {
			row.PowerOutage = fmt.Sprintf("%t", *slide.PowerOutage)
		}
		rows[i] = row
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	htmlPath := filepath.Join(w.dir, "known_slides.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", htmlPath, err)
	}
	defer f.Close()
	if err := slidesTemplate.Execute(f, rows); err != nil {
		return nil, fmt.Errorf("render %s: %w", htmlPath, err)
	}

	jsonPath := filepath.Join(w.dir, "known_slides.json")
	if err := w.writeJSON(jsonPath, ordered); err != nil {
		return nil, err
	}

	w.logger.Info("wrote known-slides report", "slides", len(ordered), "html", htmlPath, "json", jsonPath)
	return []string{htmlPath, jsonPath}, nil
}
