package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geovana49/apostaspro-v2-sub001/internal/extract"
	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
)

// fakeRecognizer returns canned text per image content.
type fakeRecognizer struct {
	texts map[string]string
	err   error
}

func (f *fakeRecognizer) Recognize(_ context.Context, image []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.texts[string(image)], nil
}

// fakeFallback scripts a sequence of responses.
type fakeFallback struct {
	responses []fallbackStep
	calls     int
}

type fallbackStep struct {
	fields *RemoteFields
	err    error
}

func (f *fakeFallback) Extract(_ context.Context, _ []byte, _ Hints) (*RemoteFields, error) {
	step := f.responses[len(f.responses)-1]
	if f.calls < len(f.responses) {
		step = f.responses[f.calls]
	}
	f.calls++
	return step.fields, step.err
}

type sleepRecorder struct {
	slept []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.slept = append(s.slept, d)
}

func newTestOrchestrator(rec TextRecognizer, fb FallbackClient) (*Orchestrator, *sleepRecorder) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	recorder := &sleepRecorder{}
	o := NewOrchestrator(rec, extract.New(), fb, NewResultCache(0), Config{
		RetryBackoff: 3 * time.Second,
		ImageDelay:   2500 * time.Millisecond,
	}, logger)
	o.sleep = recorder.sleep
	return o, recorder
}

const localSlip = "bet365\nresultado final\nodd @ 2,00\naposta: r$ 50,00\n15/03/24\ngreen"

func TestAnalyzeLocalShortCircuit(t *testing.T) {
	rec := &fakeRecognizer{texts: map[string]string{"img": localSlip}}
	fb := &fakeFallback{responses: []fallbackStep{{err: ErrFallbackUnavailable}}}
	o, _ := newTestOrchestrator(rec, fb)

	result := o.Analyze(context.Background(), []byte("img"), Hints{})
	assert.Equal(t, ResultLocal, result.Type)
	assert.Equal(t, 1.0, result.Confidence)
	require.NotNil(t, result.Fields)
	assert.True(t, result.Fields.HasCoreFields())
	assert.Equal(t, 0, fb.calls, "fallback skipped entirely")
	assert.Equal(t, localSlip, result.RawText)
}

func TestAnalyzeRemoteFallbackAndCache(t *testing.T) {
	stake, odds := 30.0, 1.8
	rec := &fakeRecognizer{texts: map[string]string{}}
	fb := &fakeFallback{responses: []fallbackStep{
		{fields: &RemoteFields{Bookmaker: "Betano", Stake: &stake, Odds: &odds, Status: "green"}},
	}}
	o, _ := newTestOrchestrator(rec, fb)

	result := o.Analyze(context.Background(), []byte("slip"), Hints{})
	assert.Equal(t, ResultRemote, result.Type)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Equal(t, "Betano", result.Fields.Bookmaker)
	assert.Equal(t, 1, fb.calls)

	// Same image again: served from cache, no second call.
	again := o.Analyze(context.Background(), []byte("slip"), Hints{})
	assert.Equal(t, ResultCached, again.Type)
	assert.Equal(t, 0.95, again.Confidence)
	assert.Equal(t, 1, fb.calls)
}

func TestAnalyzeRateLimitRetriesOnce(t *testing.T) {
	stake, odds := 10.0, 2.0
	rec := &fakeRecognizer{texts: map[string]string{}}
	fb := &fakeFallback{responses: []fallbackStep{
		{err: ErrRateLimited},
		{fields: &RemoteFields{Bookmaker: "Bet365", Stake: &stake, Odds: &odds}},
	}}
	o, recorder := newTestOrchestrator(rec, fb)

	result := o.Analyze(context.Background(), []byte("slip"), Hints{})
	assert.Equal(t, ResultRemote, result.Type)
	assert.Equal(t, 2, fb.calls)
	require.Len(t, recorder.slept, 1)
	assert.Equal(t, 3*time.Second, recorder.slept[0])
}

func TestAnalyzeRateLimitGivesUpAfterOneRetry(t *testing.T) {
	rec := &fakeRecognizer{texts: map[string]string{}}
	fb := &fakeFallback{responses: []fallbackStep{
		{err: ErrRateLimited},
		{err: ErrRateLimited},
	}}
	o, recorder := newTestOrchestrator(rec, fb)

	result := o.Analyze(context.Background(), []byte("slip"), Hints{})
	assert.Equal(t, ResultManual, result.Type)
	assert.Equal(t, 2, fb.calls, "exactly one retry")
	assert.Len(t, recorder.slept, 1)
}

func TestAnalyzeDegradesToPartialLocal(t *testing.T) {
	// Stake readable, odds missing: not good enough to short-circuit,
	// but worth keeping when the fallback dies.
	rec := &fakeRecognizer{texts: map[string]string{"img": "bet365 aposta: r$ 25"}}
	fb := &fakeFallback{responses: []fallbackStep{{err: ErrFallbackUnavailable}}}
	o, _ := newTestOrchestrator(rec, fb)

	result := o.Analyze(context.Background(), []byte("img"), Hints{})
	assert.Equal(t, ResultPartial, result.Type)
	assert.Equal(t, 0.5, result.Confidence)
	require.NotNil(t, result.Fields.Stake)
	assert.Equal(t, 25.0, *result.Fields.Stake)
	assert.NotEmpty(t, result.Suggestions)
}

func TestAnalyzeBlankScaffoldWhenEverythingFails(t *testing.T) {
	rec := &fakeRecognizer{err: context.DeadlineExceeded}
	fb := &fakeFallback{responses: []fallbackStep{{err: ErrFallbackUnavailable}}}
	o, _ := newTestOrchestrator(rec, fb)

	result := o.Analyze(context.Background(), []byte("img"), Hints{})
	assert.Equal(t, ResultManual, result.Type)
	assert.Equal(t, 0.0, result.Confidence)
	require.NotNil(t, result.Fields, "caller always gets a usable scaffold")
	assert.True(t, result.Fields.IsEmpty())
	assert.NotEmpty(t, result.Suggestions)
}

func TestAnalyzeBatchSequentialWithDelay(t *testing.T) {
	rec := &fakeRecognizer{texts: map[string]string{
		"a": localSlip,
		"b": "betano\nvalor r$ 20,00\ncota 3,00\ndupla chance\nred",
	}}
	fb := &fakeFallback{responses: []fallbackStep{{err: ErrFallbackUnavailable}}}
	o, recorder := newTestOrchestrator(rec, fb)

	draft := o.AnalyzeBatch(context.Background(), [][]byte{[]byte("a"), []byte("b")}, Hints{})
	require.NotNil(t, draft)
	require.Len(t, draft.Legs, 2, "one leg per image")

	// Bet-level fields come from the first image.
	assert.Equal(t, "Bet365", draft.MainBookmakerID)
	assert.Equal(t, "2024-03-15", draft.Date)

	assert.Equal(t, models.LegStatusWon, draft.Legs[0].Status)
	assert.Equal(t, models.LegStatusLost, draft.Legs[1].Status)
	require.NotNil(t, draft.Legs[1].Stake)
	assert.Equal(t, 20.0, *draft.Legs[1].Stake)

	require.Len(t, recorder.slept, 1, "one inter-image delay for two images")
	assert.Equal(t, 2500*time.Millisecond, recorder.slept[0])
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeRecognizer{}, &fakeFallback{responses: []fallbackStep{{err: ErrFallbackUnavailable}}})
	draft := o.AnalyzeBatch(context.Background(), nil, Hints{})
	require.NotNil(t, draft)
	assert.Empty(t, draft.Legs)
	assert.NotEmpty(t, draft.Suggestions)
}

func TestAnalyzeBatchConfidenceIsWeakestImage(t *testing.T) {
	rec := &fakeRecognizer{texts: map[string]string{
		"a": localSlip, // local, 1.0
		"b": "",        // nothing, manual scaffold, 0.0
	}}
	fb := &fakeFallback{responses: []fallbackStep{{err: ErrFallbackUnavailable}}}
	o, _ := newTestOrchestrator(rec, fb)

	draft := o.AnalyzeBatch(context.Background(), [][]byte{[]byte("a"), []byte("b")}, Hints{})
	assert.Equal(t, 0.0, draft.Confidence)
}

func TestResultCache(t *testing.T) {
	rc := NewResultCache(0)
	key := CacheKey([]byte("image-bytes"))
	assert.Nil(t, rc.Get(key))

	rc.Set(key, &AnalysisResult{Type: ResultRemote, Confidence: 0.95})
	got := rc.Get(key)
	require.NotNil(t, got)
	assert.Equal(t, ResultRemote, got.Type)

	hits, misses, ratio := rc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)

	rc.Clear()
	assert.Nil(t, rc.Get(key))
	assert.Equal(t, 0, rc.ItemCount())
}

func TestCacheKeyDistinguishesContent(t *testing.T) {
	assert.Equal(t, CacheKey([]byte("a")), CacheKey([]byte("a")))
	assert.NotEqual(t, CacheKey([]byte("a")), CacheKey([]byte("b")))
}
