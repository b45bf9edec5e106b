package analysis

// Series bundles the aligned envelope and pitch computed for one clip
// segment. Pitch may be empty when the caller skipped it; when present it
// has exactly one point per envelope point.
type Series struct {
	Envelope []WaveformPoint `json:"envelope" msgpack:"envelope"`
	Pitch    []PitchPoint    `json:"pitch,omitempty" msgpack:"pitch,omitempty"`
	Duration float64         `json:"duration" msgpack:"duration"`
}
