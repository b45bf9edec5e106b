// Package practice orchestrates the echo practice pipeline: resolve media
// bytes, decode, slice the practiced region, and reduce it to the envelope
// and pitch series the player renders.
package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/parlo-app/parlo/go/pkg/analysis"
	"github.com/parlo-app/parlo/go/pkg/echo"
	"github.com/parlo-app/parlo/go/pkg/media"
	"github.com/parlo-app/parlo/go/pkg/mediastore"
	"github.com/parlo-app/parlo/go/pkg/offload"
	"github.com/parlo-app/parlo/go/pkg/state"
)

// Config wires an Engine. Zero-value fields get private defaults; Offload
// and SeriesCache are optional features and stay off when nil.
type Config struct {
	Resolver    *mediastore.Resolver
	Cache       *media.DecodeCache
	Offload     *offload.Manager
	SeriesCache *state.SeriesCache
	Logger      *slog.Logger
}

// Engine runs analysis sessions. Safe for concurrent use.
type Engine struct {
	resolver *mediastore.Resolver
	cache    *media.DecodeCache
	offload  *offload.Manager
	series   *state.SeriesCache
	logger   *slog.Logger
}

// NewEngine builds an Engine from cfg.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = mediastore.NewResolver(nil, nil, logger)
	}
	cache := cfg.Cache
	if cache == nil {
		cache = media.NewDecodeCache(0, logger)
	}
	return &Engine{
		resolver: resolver,
		cache:    cache,
		offload:  cfg.Offload,
		series:   cfg.SeriesCache,
		logger:   logger,
	}
}

// Analyze runs the pipeline for one session. Decode and resolution failures
// surface as errors; a malformed region degrades to whole-clip analysis; an
// empty region yields empty series rather than an error.
func (e *Engine) Analyze(ctx context.Context, s Session) (*EchoAnalysis, error) {
	ref, err := e.referenceSeries(ctx, s)
	if err != nil {
		return nil, err
	}
	out := &EchoAnalysis{Reference: *ref}

	if s.Recording != nil {
		user, err := e.recordingSeries(ctx, s)
		if err != nil {
			return nil, err
		}
		out.User = user
	}
	return out, nil
}

func (e *Engine) referenceSeries(ctx context.Context, s Session) (*analysis.Series, error) {
	blob, err := e.resolver.Resolve(ctx, s.Media)
	if err != nil {
		return nil, fmt.Errorf("practice: resolve reference: %w", err)
	}

	fp := media.Fingerprint(blob)
	variant := variantTag(s)
	if e.series != nil {
		if cached, err := e.series.Get(ctx, fp, variant); err == nil {
			return cached, nil
		} else if !errors.Is(err, state.ErrNotFound) {
			e.logger.Warn("practice: series cache read failed", "fingerprint", fp, "err", err)
		}
	}

	audio, offset, err := e.decode(ctx, blob, s.Region)
	if err != nil {
		return nil, fmt.Errorf("practice: decode reference: %w", err)
	}
	seg := e.segment(audio, offset, s.Region)
	series := e.reduce(seg, s)

	if e.series != nil {
		if err := e.series.Put(ctx, fp, variant, series); err != nil {
			e.logger.Warn("practice: series cache write failed", "fingerprint", fp, "err", err)
		}
	}
	return series, nil
}

func (e *Engine) recordingSeries(ctx context.Context, s Session) (*analysis.Series, error) {
	blob, err := e.resolver.Resolve(ctx, *s.Recording)
	if err != nil {
		return nil, fmt.Errorf("practice: resolve recording: %w", err)
	}
	audio, err := e.cache.Get(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("practice: decode recording: %w", err)
	}
	// Learner recordings are analyzed whole; they are fresh per attempt, so
	// the series cache would never hit and is skipped.
	seg := media.ExtractMonoSegment(audio, 0, audio.Duration())
	return e.reduce(seg, s), nil
}

// decode obtains PCM for the blob, through the offload worker when
// configured. The returned offset is the start of the decoded chunk within
// the original media in seconds; zero on the in-process path.
func (e *Engine) decode(ctx context.Context, blob []byte, r Region) (*media.Audio, float64, error) {
	if e.offload != nil {
		var start, end float64
		if r.Active {
			start, end = r.Start, r.End
		}
		return e.offload.Decode(ctx, blob, start, end)
	}
	audio, err := e.cache.Get(ctx, blob)
	return audio, 0, err
}

// segment slices the practiced region out of the decoded audio. Offset
// shifts region times into chunk-relative time. A region that does not
// normalize (inactive, malformed, or entirely outside the clip) falls back
// to the whole clip.
func (e *Engine) segment(audio *media.Audio, offset float64, r Region) media.MonoSegment {
	if r.Active {
		w := echo.NormalizeWindow(true, r.Start-offset, r.End-offset, audio.Duration())
		if w != nil {
			return media.ExtractMonoSegment(audio, w.Start, w.End)
		}
		e.logger.Debug("practice: region does not normalize, analyzing whole clip",
			"start", r.Start, "end", r.End)
	}
	return media.ExtractMonoSegment(audio, 0, audio.Duration())
}

func (e *Engine) reduce(seg media.MonoSegment, s Session) *analysis.Series {
	series := &analysis.Series{
		Envelope: analysis.ComputeEnvelope(seg.Samples, seg.SampleRate, s.Envelope),
		Duration: seg.Duration(),
	}
	if s.Pitch && len(series.Envelope) > 0 {
		series.Pitch = analysis.ExtractPitch(seg.Samples, seg.SampleRate, series.Envelope, s.PitchOpts)
	}
	return series
}

// variantTag encodes everything besides the media bytes that changes the
// computed series, keeping differently configured runs apart in the cache.
func variantTag(s Session) string {
	region := "whole"
	if s.Region.Active {
		region = fmt.Sprintf("%.3f-%.3f", s.Region.Start, s.Region.End)
	}
	return fmt.Sprintf("r%s_n%d_s%s_c%t_p%t_f%d_h%d_v%.2f",
		region,
		s.Envelope.Points, s.Envelope.Strategy, s.Envelope.EnhanceContrast,
		s.Pitch, s.PitchOpts.FrameSize, s.PitchOpts.HopSize, s.PitchOpts.VoicedThreshold)
}
