package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/geovana49/apostaspro-v2-sub001/internal/extract"
	"github.com/geovana49/apostaspro-v2-sub001/internal/models"
)

// ResultType tells the UI which path produced an analysis.
type ResultType string

const (
	ResultLocal   ResultType = "local"
	ResultCached  ResultType = "cached"
	ResultRemote  ResultType = "remote"
	ResultPartial ResultType = "partial"
	ResultManual  ResultType = "manual"
)

// AnalysisResult is what the UI prefills an edit form from. It is
// always usable: the degradation chain ends in an empty scaffold, never
// in an error.
type AnalysisResult struct {
	Type        ResultType               `json:"type"`
	Confidence  float64                  `json:"confidence"`
	Fields      *extract.ExtractedFields `json:"fields"`
	RawText     string                   `json:"raw_text,omitempty"`
	Suggestions []string                 `json:"suggestions"`
}

// LegDraft is one prefillable coverage leg built from one slip image.
type LegDraft struct {
	BookmakerID string           `json:"bookmaker_id"`
	Market      string           `json:"market"`
	Odds        *float64         `json:"odds,omitempty"`
	Stake       *float64         `json:"stake,omitempty"`
	Status      models.LegStatus `json:"status"`
}

// BetDraft is the prefillable bet assembled from a batch of images:
// bet-level fields come from the first image, one leg per image.
type BetDraft struct {
	Event           string     `json:"event"`
	Date            string     `json:"date"`
	MainBookmakerID string     `json:"main_bookmaker_id"`
	Promotion       string     `json:"promotion"`
	Legs            []LegDraft `json:"legs"`
	Confidence      float64    `json:"confidence"`
	Suggestions     []string   `json:"suggestions"`
}

// Config holds the orchestrator's pacing knobs.
type Config struct {
	// RetryBackoff is waited before the single retry after a rate limit.
	RetryBackoff time.Duration
	// ImageDelay is inserted between successive images of one batch so
	// the fallback's rate limit is respected client-side.
	ImageDelay time.Duration
}

// DefaultConfig returns the pacing used in production.
func DefaultConfig() Config {
	return Config{
		RetryBackoff: 3 * time.Second,
		ImageDelay:   2500 * time.Millisecond,
	}
}

// Orchestrator chooses between deterministic extraction and the AI
// fallback, caches by image content, and degrades gracefully.
type Orchestrator struct {
	recognizer TextRecognizer
	extractor  *extract.Extractor
	fallback   FallbackClient
	cache      *ResultCache
	config     Config
	logger     *logrus.Logger
	sleep      func(time.Duration)
}

// NewOrchestrator wires an orchestrator. The cache is injected so a
// test (or a future multi-account setup) can use a fresh one per run.
func NewOrchestrator(recognizer TextRecognizer, extractor *extract.Extractor, fallback FallbackClient, resultCache *ResultCache, cfg Config, logger *logrus.Logger) *Orchestrator {
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultConfig().RetryBackoff
	}
	if cfg.ImageDelay <= 0 {
		cfg.ImageDelay = DefaultConfig().ImageDelay
	}
	return &Orchestrator{
		recognizer: recognizer,
		extractor:  extractor,
		fallback:   fallback,
		cache:      resultCache,
		config:     cfg,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Analyze turns one slip image into a prefillable result. It never
// returns an error: every failure path resolves to a structured result
// plus an advisory suggestion.
func (o *Orchestrator) Analyze(ctx context.Context, image []byte, hints Hints) *AnalysisResult {
	// Local extraction first: when both high-quality signals are there,
	// the fallback call (and its cost and latency) is skipped entirely.
	text, err := o.recognizer.Recognize(ctx, image)
	if err != nil {
		o.logger.WithError(err).Debug("text recognition failed, relying on fallback")
		text = ""
	}
	localFields := o.extractor.Extract(text)

	if localFields.HasCoreFields() {
		AnalysesTotal.WithLabelValues(string(ResultLocal)).Inc()
		localFields.Confidence = 1.0
		return &AnalysisResult{
			Type:        ResultLocal,
			Confidence:  1.0,
			Fields:      localFields,
			RawText:     text,
			Suggestions: []string{"Slip read locally in real time, no AI call was needed."},
		}
	}

	key := CacheKey(image)
	if cached := o.cache.Get(key); cached != nil {
		AnalysesTotal.WithLabelValues(string(ResultCached)).Inc()
		copied := *cached
		copied.Type = ResultCached
		return &copied
	}

	remote, err := o.callFallback(ctx, image, hints)
	if err == nil {
		AnalysesTotal.WithLabelValues(string(ResultRemote)).Inc()
		result := &AnalysisResult{
			Type:        ResultRemote,
			Confidence:  0.95,
			Fields:      remoteToFields(remote),
			RawText:     text,
			Suggestions: []string{"Fields guessed by the AI fallback, review before saving."},
		}
		o.cache.Set(key, result)
		return result
	}
	o.logger.WithError(err).Warn("AI fallback failed")

	if !localFields.IsEmpty() {
		AnalysesTotal.WithLabelValues(string(ResultPartial)).Inc()
		localFields.Confidence = 0.5
		return &AnalysisResult{
			Type:        ResultPartial,
			Confidence:  0.5,
			Fields:      localFields,
			RawText:     text,
			Suggestions: []string{"The AI fallback is unavailable and the local reading is incomplete, check every field."},
		}
	}

	AnalysesTotal.WithLabelValues(string(ResultManual)).Inc()
	return &AnalysisResult{
		Type:        ResultManual,
		Confidence:  0,
		Fields:      &extract.ExtractedFields{Layout: "manual"},
		RawText:     text,
		Suggestions: []string{"Could not read this slip automatically, fill in the fields manually."},
	}
}

// callFallback performs the fallback call with exactly one retry after
// a fixed backoff when the service reports rate limiting.
func (o *Orchestrator) callFallback(ctx context.Context, image []byte, hints Hints) (*RemoteFields, error) {
	remote, err := o.fallback.Extract(ctx, image, hints)
	if err == nil || !errors.Is(err, ErrRateLimited) {
		return remote, err
	}

	o.logger.WithField("backoff", o.config.RetryBackoff).Info("Fallback rate limited, retrying once")
	o.sleep(o.config.RetryBackoff)
	return o.fallback.Extract(ctx, image, hints)
}

// AnalyzeBatch processes images sequentially with a fixed inter-image
// delay. Bet-level fields come from the first image; each image yields
// one leg draft.
func (o *Orchestrator) AnalyzeBatch(ctx context.Context, images [][]byte, hints Hints) *BetDraft {
	if len(images) == 0 {
		return &BetDraft{Suggestions: []string{"No images provided, fill in the bet manually."}}
	}

	results := make([]*AnalysisResult, 0, len(images))
	for i, image := range images {
		if i > 0 {
			o.sleep(o.config.ImageDelay)
		}
		results = append(results, o.Analyze(ctx, image, hints))
	}

	first := results[0].Fields
	draft := &BetDraft{
		Event:           first.Event,
		Date:            first.Date,
		MainBookmakerID: first.Bookmaker,
		Promotion:       first.Promotion,
		Confidence:      results[0].Confidence,
	}

	seen := map[string]bool{}
	for _, result := range results {
		fields := result.Fields
		draft.Legs = append(draft.Legs, LegDraft{
			BookmakerID: fields.Bookmaker,
			Market:      fields.Market,
			Odds:        fields.Odds,
			Stake:       fields.Stake,
			Status:      models.ParseLegStatus(fields.Status),
		})
		if result.Confidence < draft.Confidence {
			draft.Confidence = result.Confidence
		}
		for _, s := range result.Suggestions {
			if !seen[s] {
				seen[s] = true
				draft.Suggestions = append(draft.Suggestions, s)
			}
		}
	}
	return draft
}

func remoteToFields(remote *RemoteFields) *extract.ExtractedFields {
	return &extract.ExtractedFields{
		Bookmaker:  remote.Bookmaker,
		Stake:      remote.Stake,
		Odds:       remote.Odds,
		Market:     remote.Market,
		Event:      remote.Event,
		Date:       remote.Date,
		Promotion:  remote.Promotion,
		Status:     remote.Status,
		Confidence: 0.95,
		Layout:     "ai",
	}
}
