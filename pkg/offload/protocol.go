package offload

import "github.com/parlo-app/parlo/go/pkg/media"

// Frame type tags. A conversation is: the caller sends decode frames, the
// worker answers each taskId with exactly one result or error frame and may
// emit progress frames in between; ready announces a worker to its peer.
const (
	TypeDecode   = "decode"
	TypeResult   = "result"
	TypeError    = "error"
	TypeProgress = "progress"
	TypeReady    = "ready"
)

// Envelope frames every worker message. Type and TaskID are the routing
// header; exactly one payload field is set, matching the type tag. The same
// framing serializes over a real wire (the analysis service websocket) and
// crosses in-process channels unserialized.
type Envelope struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId,omitempty"`

	// Decode request, flattened alongside the header.
	Blob      []byte  `json:"blob,omitempty"`
	StartTime float64 `json:"startTime,omitempty"`
	EndTime   float64 `json:"endTime,omitempty"`

	// Reply payloads.
	Data     *DecodeResult `json:"data,omitempty"`
	Error    *ErrorInfo    `json:"error,omitempty"`
	Progress *Progress     `json:"progress,omitempty"`
	Ready    *Ready        `json:"ready,omitempty"`
}

// DecodeResult is the data payload of a result frame. ChunkStart is the
// offset in seconds of the decoded chunk within the original media; zero
// unless the worker took a container chunk fast path.
type DecodeResult struct {
	Audio      *media.Audio `json:"audio"`
	ChunkStart float64      `json:"chunkStart,omitempty"`
}

// ErrorInfo is the error payload of an error frame.
type ErrorInfo struct {
	Message string `json:"message"`
}

// Progress reports long-running task progress in opaque units.
type Progress struct {
	Loaded  int64  `json:"loaded"`
	Total   int64  `json:"total"`
	Message string `json:"message,omitempty"`
}

// Ready announces a worker and the decoder backing it.
type Ready struct {
	Decoder string `json:"decoder"`
}
