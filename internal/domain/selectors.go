package domain

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FieldStrategy extracts one candidate value for a field from a row.
// An empty result means "no match, try the next strategy".
type FieldStrategy func(row *goquery.Selection) string

// FieldChain is an ordered list of strategies; the first non-empty result wins.
type FieldChain []FieldStrategy

// Resolve runs the chain against row and returns the first non-empty value.
func (c FieldChain) Resolve(row *goquery.Selection) string {
	for _, strategy := range c {
		if v := strings.TrimSpace(strategy(row)); v != "" {
			return v
		}
	}
	return ""
}

// Text returns the trimmed text of the first element matching selector.
func Text(selector string) FieldStrategy {
	return func(row *goquery.Selection) string {
		return strings.TrimSpace(row.Find(selector).First().Text())
	}
}

// AllText returns the trimmed text of every element matching selector,
// concatenated in document order.
func AllText(selector string) FieldStrategy {
	return func(row *goquery.Selection) string {
		return strings.TrimSpace(row.Find(selector).Text())
	}
}

// Attr returns the named attribute of the first element matching selector.
func Attr(selector, name string) FieldStrategy {
	return func(row *goquery.Selection) string {
		v, _ := row.Find(selector).First().Attr(name)
		return strings.TrimSpace(v)
	}
}

// FirstLinkText returns the text of the row's first hyperlink.
func FirstLinkText() FieldStrategy {
	return Text("a")
}

// Selectors names the row selectors and the per-field fallback chains.
type Selectors struct {
	Rows     []string
	Time     FieldChain
	Title    FieldChain
	Currency FieldChain
	Impact   FieldChain
	Forecast FieldChain
	Actual   FieldChain
	Previous FieldChain
}

// rowQuery joins the row selectors into one group selector so matches come
// back once each, in document order.
func (s Selectors) rowQuery() string {
	return strings.Join(s.Rows, ", ")
}

// DefaultSelectors covers both the current "calendar__" markup and the older
// bare class names.
func DefaultSelectors() Selectors {
	return Selectors{
		Rows: []string{
			"tr.calendar__row",
			"tr.calendar_row",
			"tr[class*='calendar']",
		},
		Time: FieldChain{
			Text(".calendar__time"),
			Text(".time"),
		},
		Title: FieldChain{
			Text(".calendar__event-title"),
			Text(".calendar__event"),
			Text(".event"),
			FirstLinkText(),
		},
		Currency: FieldChain{
			Text(".calendar__currency"),
			Text(".calendar__currency-code"),
			Text(".currency"),
		},
		Impact: FieldChain{
			Attr(".calendar__impact span", "title"),
			Attr(".calendar__impact img", "title"),
			Attr(".impact img", "title"),
			AllText(".calendar__impact"),
			AllText(".impact"),
		},
		Forecast: FieldChain{
			AllText(".calendar__forecast"),
			AllText(".forecast"),
		},
		Actual: FieldChain{
			AllText(".calendar__actual"),
			AllText(".actual"),
		},
		Previous: FieldChain{
			AllText(".calendar__previous"),
			AllText(".previous"),
		},
	}
}
