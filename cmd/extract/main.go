// Command extract runs the calendar extractor over a saved calendar page and
// prints the resulting calendar JSON. It uses the same domain package as the
// service, so a page captured from the source reproduces the live response.
//
// Usage:
//
//	go run ./cmd/extract -in testdata/calendar_today.html -profile loose -pretty -source saved-page
//	curl -s https://www.forexfactory.com/calendar.php?day=today | go run ./cmd/extract -all
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/econ-calendar-service/internal/domain"
)

func main() {
	in := flag.String("in", "-", "calendar HTML file, or - for stdin")
	profile := flag.String("profile", domain.ProfileStrict, "filter profile: strict or loose")
	all := flag.Bool("all", false, "print every extracted event instead of the filtered set")
	pretty := flag.Bool("pretty", false, "indent JSON output")
	source := flag.String("source", "forexfactory", "source label reported in the output")
	flag.Parse()

	if err := run(*in, *source, *profile, *all, *pretty, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "extract:", err)
		os.Exit(1)
	}
}

func run(in, source, profile string, all, pretty bool, out io.Writer) error {
	filter, err := domain.FilterForProfile(profile)
	if err != nil {
		return err
	}

	markup, err := readInput(in)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	extractor := domain.NewExtractor(domain.DefaultSelectors(), filter, logger)

	extraction, err := extractor.ExtractAll(markup)
	if err != nil {
		return fmt.Errorf("extract %s: %w", in, err)
	}

	events := extraction.Events
	if !all {
		events = filter.Apply(events)
	}
	cal := domain.NewCalendar(domain.Today(), events).WithSummary(source, len(extraction.Events))

	fmt.Fprintf(os.Stderr, "rows=%d events=%d dropped=%d failed=%d printed=%d\n",
		extraction.Rows, len(extraction.Events), extraction.Dropped, extraction.Failed, len(events))

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(cal)
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
