// Package echo implements the echo practice window: the validated playback
// window, the per-tick playback decision, and the region/transcript-line
// resolution that survives session reloads.
//
// The three moving parts:
//
//   - [NormalizeWindow] builds the only trusted window representation.
//   - [Decide] keeps playback inside the window on every position tick.
//   - [FindLineIndexByTime] and [Restorer] map persisted region times back
//     onto transcript line indices once lines are available again.
//
// Example playback loop:
//
//	w := echo.NormalizeWindow(true, region.StartTime, region.EndTime, duration)
//	for tick := range positionTicks {
//	    switch d := echo.Decide(tick, w); d.Action {
//	    case echo.ActionClamp:
//	        player.Seek(d.SeekTo)
//	    case echo.ActionLoop:
//	        player.Seek(d.SeekTo)
//	        player.Pause()
//	    }
//	}
package echo
