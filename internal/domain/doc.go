// Package domain extracts and filters economic-calendar events from the
// ForexFactory calendar page.
//
// # Data Source
//
// Events come from https://www.forexfactory.com/calendar.php?day=today, an HTML
// page whose markup is not under our control. The extractor documents the
// markup as it currently looks; it makes no attempt to survive redesigns
// beyond the fallback selectors listed below.
//
// # Markup Conventions
//
// Rows:
//
//	Each event is a <tr>. Current markup uses class "calendar__row", older
//	markup used "calendar_row", and some variants only share a class that
//	contains "calendar". All three selectors are applied together and rows
//	are visited in document order.
//
// Cells:
//
//	Current markup prefixes cell classes with "calendar__" (calendar__time,
//	calendar__currency, calendar__event, calendar__impact, calendar__actual,
//	calendar__forecast, calendar__previous). Older markup used the bare names
//	(time, currency, event, impact, actual, forecast, previous). Each field
//	tries its candidates in order and keeps the first non-empty value. A row
//	without an event cell falls back to the text of its first link.
//
// Values:
//
//	Time, title and currency read the first matching cell. Impact text and the
//	forecast, actual and previous values concatenate every matching cell in
//	the row, so a value split across nested or repeated cells is kept whole.
//
// Impact:
//
//	Impact is rendered as an icon whose title attribute carries the label,
//	e.g. <span title="High Impact Expected">. When no icon title is present the
//	cell text is used. Runs of whitespace are collapsed to one space.
//
// Time:
//
//	Free text such as "8:30am", "All Day" or "Tentative". Rows that share a
//	time with the row above leave the cell empty; the value is not carried
//	forward.
//
// # Filtering
//
// Only USD events with medium or high impact are returned. Matching is a
// case-insensitive substring test against configurable aliases; see [Filter].
//
// # ID Generation
//
// IDs are "currency|title|time|rowIndex", where rowIndex counts every matched
// row including dropped ones. They are unique within one response only and
// are not stable across days or markup changes.
package domain
