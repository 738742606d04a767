package form

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/a3tai/dr-antrag/internal/trip"
)

// FallbackSuffix names the output when destination and purpose yield nothing.
const FallbackSuffix = "Antrag"

var (
	postalCity  = regexp.MustCompile(`\d{5}\s+([A-Za-zäöüÄÖÜß\s\-]+)`)
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9äöüÄÖÜß_]`)
	underscores = regexp.MustCompile(`_+`)
)

// Filename derives the output file name of req. It never fails: a start date
// that does not parse falls back to now.
func Filename(req *trip.Request, now time.Time) string {
	return BuildFilename(req.StartDate(), req.Destination(), req.Purpose(), now)
}

// BuildFilename composes "{YYYYMMDD}_DR-Antrag_{suffix}.pdf" from the raw
// request texts.
func BuildFilename(startDate, destination, purpose string, now time.Time) string {
	prefix := datePrefix(startDate, now)

	suffix := city(norm.NFC.String(destination))
	if t := topic(norm.NFC.String(purpose)); t != "" {
		suffix += "_" + t
	}

	return prefix + "_DR-Antrag_" + sanitize(suffix) + ".pdf"
}

func datePrefix(startDate string, now time.Time) string {
	d, err := time.Parse(trip.DateLayout, startDate)
	if err != nil {
		slog.Warn("invalid start date, using current date for file name", "start_date", startDate)
		return now.Format(trip.CompactLayout)
	}
	return d.Format(trip.CompactLayout)
}

// city returns the place name following a five digit postal code, or the
// destination unchanged.
func city(destination string) string {
	if m := postalCity.FindStringSubmatch(destination); m != nil {
		return strings.TrimSpace(m[1])
	}
	return destination
}

// topic returns the first word of the purpose, looking past a leading
// "Category:" label.
func topic(purpose string) string {
	if _, after, ok := strings.Cut(purpose, ":"); ok {
		purpose = after
	}
	words := strings.Fields(purpose)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

func sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(s, "_")
	s = underscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return FallbackSuffix
	}
	return s
}
