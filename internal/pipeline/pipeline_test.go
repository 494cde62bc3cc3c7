package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/econ-calendar-service/internal/domain"
	"github.com/couchcryptid/econ-calendar-service/internal/observability"
	"github.com/couchcryptid/econ-calendar-service/internal/pipeline"
)

// --- mocks ---

type mockFetcher struct {
	markup string
	err    error
	calls  int
}

func (m *mockFetcher) Fetch(_ context.Context) (string, error) {
	m.calls++
	return m.markup, m.err
}

type mockPublisher struct {
	published []domain.Calendar
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, cal domain.Calendar) error {
	m.published = append(m.published, cal)
	return m.err
}

const threeRowMarkup = `<table>
	<tr class="calendar__row"><td class="calendar__time">8:30am</td><td class="calendar__currency">USD</td><td class="calendar__event">CPI m/m</td><td class="calendar__impact"><span title="High Impact Expected"></span></td></tr>
	<tr class="calendar__row"><td class="calendar__time">9:00am</td><td class="calendar__currency">EUR</td><td class="calendar__event">ECB Press Conference</td><td class="calendar__impact"><span title="High Impact Expected"></span></td></tr>
	<tr class="calendar__row"><td class="calendar__time">10:30am</td><td class="calendar__currency">USD</td><td class="calendar__event">Crude Oil Inventories</td><td class="calendar__impact"><span title="Low Impact Expected"></span></td></tr>
</table>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTransformer() *pipeline.CalendarTransformer {
	extractor := domain.NewExtractor(domain.DefaultSelectors(), domain.StrictFilter(), discardLogger())
	return pipeline.NewTransformer(extractor, discardLogger())
}

func observations(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, time.October, 19, 12, 30, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

// --- tests ---

func TestPipeline_Scrape_HappyPath(t *testing.T) {
	freezeClock(t)
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockFetcher{markup: threeRowMarkup}, newTransformer(), nil, discardLogger(), metrics, pipeline.Options{})

	cal, err := p.Scrape(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19", cal.Date)
	require.Len(t, cal.Events, 1)
	assert.Equal(t, "USD|CPI m/m|8:30am|0", cal.Events[0].ID)
	assert.Empty(t, cal.Source)
	assert.Nil(t, cal.CountAll)
	assert.Nil(t, cal.CountFiltered)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ScrapeRequests.WithLabelValues(observability.OutcomeSuccess)), 0.0001)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RowsSeen), 0.0001)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.EventsReturned), 0.0001)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PublishEnabled), 0.0001)
	require.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Scrape_ExtendedResponse(t *testing.T) {
	freezeClock(t)
	p := pipeline.New(&mockFetcher{markup: threeRowMarkup}, newTransformer(), nil, discardLogger(),
		observability.NewMetricsForTesting(), pipeline.Options{Source: "forexfactory", Extended: true})

	cal, err := p.Scrape(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "forexfactory", cal.Source)
	require.NotNil(t, cal.CountAll)
	require.NotNil(t, cal.CountFiltered)
	assert.Equal(t, 3, *cal.CountAll)
	assert.Equal(t, 1, *cal.CountFiltered)
}

func TestPipeline_Scrape_FetchError(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	pub := &mockPublisher{}
	p := pipeline.New(&mockFetcher{err: errors.New("dial tcp: connection refused")}, newTransformer(), pub,
		discardLogger(), metrics, pipeline.Options{})

	_, err := p.Scrape(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch calendar")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, pub.published)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ScrapeRequests.WithLabelValues(observability.OutcomeFetchError)), 0.0001)

	readyErr := p.CheckReadiness(context.Background())
	require.Error(t, readyErr)
	assert.Contains(t, readyErr.Error(), "connection refused")
}

func TestPipeline_Scrape_UnparseableMarkup(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockFetcher{markup: "Service Unavailable"}, newTransformer(), nil, discardLogger(), metrics, pipeline.Options{})

	_, err := p.Scrape(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnparseable))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ScrapeRequests.WithLabelValues(observability.OutcomeExtractError)), 0.0001)
}

func TestPipeline_Scrape_ReadinessRecovers(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("timeout")}
	p := pipeline.New(fetcher, newTransformer(), nil, discardLogger(), observability.NewMetricsForTesting(), pipeline.Options{})

	require.NoError(t, p.CheckReadiness(context.Background()), "ready before first scrape")

	_, err := p.Scrape(context.Background())
	require.Error(t, err)
	require.Error(t, p.CheckReadiness(context.Background()))

	fetcher.err = nil
	fetcher.markup = threeRowMarkup
	_, err = p.Scrape(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 2, fetcher.calls, "no retries")
}

func TestPipeline_Scrape_Publishes(t *testing.T) {
	freezeClock(t)
	metrics := observability.NewMetricsForTesting()
	pub := &mockPublisher{}
	p := pipeline.New(&mockFetcher{markup: threeRowMarkup}, newTransformer(), pub, discardLogger(), metrics, pipeline.Options{})

	cal, err := p.Scrape(context.Background())
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, cal, pub.published[0])
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PublishEnabled), 0.0001)
}

func TestPipeline_Scrape_PublishErrorDoesNotFail(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	pub := &mockPublisher{err: errors.New("broker unavailable")}
	p := pipeline.New(&mockFetcher{markup: threeRowMarkup}, newTransformer(), pub, discardLogger(), metrics, pipeline.Options{})

	cal, err := p.Scrape(context.Background())
	require.NoError(t, err)
	assert.Len(t, cal.Events, 1)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PublishErrors), 0.0001)
	require.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Scrape_NoMatchingEventsReturnsEmptyList(t *testing.T) {
	markup := `<table><tr class="calendar__row"><td class="calendar__currency">JPY</td><td class="calendar__event">BOJ Outlook Report</td><td class="calendar__impact">High</td></tr></table>`
	p := pipeline.New(&mockFetcher{markup: markup}, newTransformer(), nil, discardLogger(), observability.NewMetricsForTesting(), pipeline.Options{})

	cal, err := p.Scrape(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cal.Events)
	assert.Empty(t, cal.Events)
}

func TestPipeline_Scrape_DurationObservedForEveryOutcome(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	fetcher := &mockFetcher{err: context.DeadlineExceeded}
	p := pipeline.New(fetcher, newTransformer(), nil, discardLogger(), metrics, pipeline.Options{})

	_, err := p.Scrape(context.Background())
	require.Error(t, err)
	assert.Equal(t, uint64(1), observations(t, metrics.ScrapeDuration))

	fetcher.err = nil
	fetcher.markup = "plain text"
	_, err = p.Scrape(context.Background())
	require.Error(t, err)
	assert.Equal(t, uint64(2), observations(t, metrics.ScrapeDuration))

	fetcher.markup = threeRowMarkup
	_, err = p.Scrape(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), observations(t, metrics.ScrapeDuration))
}
