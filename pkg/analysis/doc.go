// Package analysis reduces mono PCM to the two aligned series the echo
// practice UI plots: a fixed-resolution loudness envelope and a pitch contour
// resampled onto the envelope's time grid.
//
//   - [ComputeEnvelope] buckets samples into at most MaxEnvelopePoints
//     loudness values, normalized into [0, 1], with optional perceptual
//     contrast shaping.
//   - [ExtractPitch] runs a YIN estimator over the samples and aligns the
//     per-frame result 1:1 with a previously computed envelope.
//
// Both functions are pure over their inputs and safe to call concurrently.
//
// Example:
//
//	env := analysis.ComputeEnvelope(seg.Samples, seg.SampleRate, analysis.EnvelopeOptions{
//	    Points:          200,
//	    Strategy:        analysis.StrategyHybrid,
//	    EnhanceContrast: true,
//	})
//	pitch := analysis.ExtractPitch(seg.Samples, seg.SampleRate, env, analysis.PitchOptions{})
package analysis
