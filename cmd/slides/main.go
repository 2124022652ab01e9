// Command slides writes the curated known-slides list for the Sitka road
// system: known_slides.json (consumed by the analysis commands) and an HTML
// summary page.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/report"
)

func main() {
	outDir := flag.String("out", "known_slides", "directory for known_slides.json and known_slides.html")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	w := report.NewWriter(*outDir, logger)
	paths, err := w.WriteKnownSlides(knownSlides())
	if err != nil {
		logger.Error("failed to write known slides", "error", err)
		os.Exit(1)
	}
	logger.Info("known slides written", "paths", paths)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// knownSlides is the curated record of documented slides near Sitka. Times
// are UTC; several are estimates, noted in the names. Sources are linked per
// slide.
func knownSlides() []domain.SlideEvent {
	return []domain.SlideEvent{
		{
			Name:       "Beaver Lake Slide 11/2011 (wind and snowmelt?)",
			Time:       utc(2011, 11, 12, 19, 0), // 10:00 AKST
			Location:   "Beaver Lake, Bear Mountain shoreline",
			Fatalities: intPtr(0),
			URLs: []string{
				"https://www.kcaw.org/2011/12/19/mass-wasting-event-destroys-popular-sitka-trail/",
			},
		},
		{
			Name:       "Redoubt Slide 5/2013 (not on Sitka road system)",
			Time:       utc(2013, 5, 13, 19, 0), // 11:00 AKDT
			Location:   "Redoubt Lake, near Redoubt Lake Cabin",
			Fatalities: intPtr(0),
			URLs: []string{
				"https://www.kcaw.org/2013/05/13/couple-escapes-as-landslide-destroys-cabin/",
			},
		},
		{
			Name:       "Starrigavan Slide 9/2014 (time of slide unknown)",
			Time:       utc(2014, 9, 18, 20, 0), // 12:00 AKDT, estimated
			Location:   "Starrigavan Valley",
			Fatalities: intPtr(0),
			URLs: []string{
				"https://www.kcaw.org/2014/09/24/landslide-destroys-starrigavan-restoration-projects/",
				"http://www.sitkanature.org/wordpress/2014/09/26/starrigavan-landslide/",
			},
		},
		{
			Name:       "South Kramer Slide 8/2015",
			Time:       utc(2015, 8, 18, 17, 41), // 9:41 AKDT
			Location:   "South end of Kramer Ave",
			Fatalities: intPtr(3),
			URLs: []string{
				"https://www.adn.com/alaska-news/article/3-missing-after-heavy-rain-prompts-landslides-sinkhole-sitka/2015/08/18/",
				"https://www.kcaw.org/2015/08/18/three-landslides-prompt-sitka-to-declare-state-of-emergency/",
				"https://www.cityofsitka.com/documents/Sitka_SKramerLandslideReport.pdf",
			},
		},
		{
			Name:       "HPR Slide 9/2016 (minor slide)",
			Time:       utc(2016, 9, 16, 10, 20), // 2:20 AKDT
			Location:   "HPR, near Davidoff Street",
			Fatalities: intPtr(0),
			URLs: []string{
				"https://www.kcaw.org/2016/09/16/small-mudslide-generates-big-response-in-sitka/",
			},
		},
		{
			Name:       "HPR Slide 9/2017",
			Time:       utc(2017, 9, 4, 20, 0), // 12:00 AKDT
			Location:   "HPR, near Valhalla Drive",
			Fatalities: intPtr(0),
			URLs: []string{
				"https://www.kcaw.org/2017/09/04/landslide-closes-halibut-point-road-sitka/",
				"https://www.kcaw.org/2017/09/04/no-injuries-sitkas-pretty-impressive-labor-day-landslide/",
			},
		},
		{
			Name:        "Medvejie Slide 9/2019",
			Time:        utc(2019, 9, 20, 20, 50), // 12:50 AKDT
			Location:    "Medvejie Hatchery",
			Fatalities:  intPtr(0),
			PowerOutage: boolPtr(true),
			URLs: []string{
				"https://www.kcaw.org/2019/09/20/slide-cuts-off-green-lake-road-hatchery-access/",
			},
		},
		{
			// Time from personal communication with homeowners.
			Name:        "Sand Dollar Drive Slide 11/2/2020",
			Time:        utc(2020, 11, 2, 4, 25), // 19:25 AKST 11/1
			Location:    "Sand Dollar Drive",
			Fatalities:  intPtr(0),
			PowerOutage: boolPtr(false),
			URLs: []string{
				"https://www.kcaw.org/2020/11/02/back-to-back-landslides-block-sitkas-sand-dollar-drive/",
			},
		},
		{
			// Probably an additional release of the first slide.
			Name:        "Second Sand Dollar Drive Slide 11/2/2020",
			Time:        utc(2020, 11, 2, 12, 0), // 3:00 AKST
			Location:    "Sand Dollar Drive",
			Fatalities:  intPtr(0),
			PowerOutage: boolPtr(false),
			URLs: []string{
				"https://www.kcaw.org/2020/11/02/back-to-back-landslides-block-sitkas-sand-dollar-drive/",
			},
		},
		{
			// The slides probably happened 12-24 hours before this time.
			Name:        "Olga Strait slides 10/26/20",
			Time:        utc(2020, 10, 26, 20, 0), // 12:00 AKDT
			Location:    "Waterways North of Sitka",
			Fatalities:  intPtr(0),
			PowerOutage: boolPtr(false),
			URLs: []string{
				"https://www.facebook.com/groups/sitkachatters/permalink/1816612201819511/",
			},
		},
		{
			// Heavy rains 8/12, slide noticed 8/14 by a fishing crew; time
			// is a rough estimate.
			Name:        "Crawfish Inlet slide 8/12/23",
			Time:        utc(2023, 8, 13, 4, 0), // 20:00 AKDT 8/12
			Location:    "Crawfish Inlet, South of Sitka",
			Fatalities:  intPtr(0),
			PowerOutage: boolPtr(false),
			URLs: []string{
				"https://www.facebook.com/AlaskanLegoMinifigure/posts/pfbid0d4ArJr11angJbfEut37LaPC8am42uek2jVMssLMK4JMCa57XYT5bt1NgvPYG3LL3l",
				"https://sitkascience.org/atmospheric-river-event/",
				"https://www.kcaw.org/2023/08/15/record-rainfall-bumped-sitkas-landslide-risk-level-to-medium-on-saturday/",
			},
		},
	}
}
