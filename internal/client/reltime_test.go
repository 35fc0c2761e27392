package client

import (
	"testing"
	"time"

	"github.com/dakka24/dakka/internal/i18n"
)

func TestRelativeTimeFormat(t *testing.T) {
	now := time.Date(2026, time.March, 20, 18, 30, 0, 0, time.UTC)
	catalog := i18n.MustLoad()

	cases := []struct {
		name   string
		locale string
		at     time.Time
		want   string
	}{
		{"justNow", "en", now.Add(-30 * time.Second), "now"},
		{"future", "en", now.Add(time.Hour), "now"},
		{"minutes", "en", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"hours", "en", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days", "en", now.Add(-2 * 24 * time.Hour), "2 days ago"},
		{"absolute", "en", now.Add(-10 * 24 * time.Hour), "03/10/2026"},
		{"edgeMinute", "en", now.Add(-time.Minute), "1 minute ago"},
		{"oneHour", "en", now.Add(-time.Hour), "1 hour ago"},
		{"oneDay", "en", now.Add(-24 * time.Hour), "1 day ago"},
		{"turkishOneMinute", "tr", now.Add(-time.Minute), "1 dakika önce"},
		{"edgeWeek", "en", now.Add(-7 * 24 * time.Hour), "03/13/2026"},
		{"turkishMinutes", "tr", now.Add(-5 * time.Minute), "5 dakika önce"},
		{"turkishNow", "tr", now, "şimdi"},
		{"turkishDate", "tr", now.Add(-10 * 24 * time.Hour), "10.03.2026"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := RelativeTime{Now: func() time.Time { return now }, Locale: tc.locale, Catalog: catalog}
			if got := f.Format(tc.at); got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestRelativeTimeDateUsesLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	f := RelativeTime{Locale: "tr", Catalog: i18n.MustLoad(), Location: istanbul}

	late := time.Date(2026, time.March, 20, 22, 30, 0, 0, time.UTC)
	if got := f.Date(late); got != "21.03.2026" {
		t.Fatalf("expected date in configured zone, got %q", got)
	}
}
