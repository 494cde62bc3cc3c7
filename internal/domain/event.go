package domain

import "errors"

// ErrUnparseable is returned when the input cannot be treated as markup at all.
var ErrUnparseable = errors.New("markup could not be parsed")

// Event is one economic-calendar entry extracted from a calendar row.
type Event struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Time     string  `json:"time"`
	Currency string  `json:"currency"`
	Impact   string  `json:"impact"`
	Forecast *string `json:"forecast"`
	Actual   *string `json:"actual"`
	Previous *string `json:"previous"`
}

// Extraction is the unfiltered result of walking every calendar row.
type Extraction struct {
	Events  []Event // valid rows in document order
	Rows    int     // rows matched by the row selectors
	Dropped int     // rows missing a title or currency
	Failed  int     // rows whose field strategies failed
}

// Calendar is the success body returned to callers.
// Source, CountAll and CountFiltered are only set for the extended variant.
type Calendar struct {
	Date          string  `json:"date"`
	Source        string  `json:"source,omitempty"`
	CountAll      *int    `json:"count_all,omitempty"`
	CountFiltered *int    `json:"count_filtered,omitempty"`
	Events        []Event `json:"events"`
}

// NewCalendar builds the response for the given day. A nil events slice is
// normalized so the body always carries a JSON array.
func NewCalendar(date string, events []Event) Calendar {
	if events == nil {
		events = []Event{}
	}
	return Calendar{Date: date, Events: events}
}

// WithSummary returns a copy of c carrying the source label and raw/filtered counts.
func (c Calendar) WithSummary(source string, countAll int) Calendar {
	filtered := len(c.Events)
	c.Source = source
	c.CountAll = &countAll
	c.CountFiltered = &filtered
	return c
}

// ScrapeFailure is the body returned when a scrape cannot produce a calendar.
type ScrapeFailure struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// NewScrapeFailure wraps err into the failure body.
func NewScrapeFailure(err error) ScrapeFailure {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return ScrapeFailure{Error: "Scrape failed", Detail: detail}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
