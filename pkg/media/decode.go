package media

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Container identifies a media container format.
type Container string

// Containers recognized by [SniffContainer].
const (
	ContainerWAV     Container = "wav"
	ContainerFLAC    Container = "flac"
	ContainerOGG     Container = "ogg"
	ContainerMP3     Container = "mp3"
	ContainerUnknown Container = ""
)

// DecodeError reports a malformed or unsupported media blob. It is fatal for
// the analysis call that triggered the decode, never for the process.
type DecodeError struct {
	Container Container
	Err       error
}

func (e *DecodeError) Error() string {
	if e.Container == ContainerUnknown {
		return fmt.Sprintf("media: decode: %v", e.Err)
	}
	return fmt.Sprintf("media: decode %s: %v", e.Container, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SniffContainer identifies the container from the blob's leading bytes.
func SniffContainer(blob []byte) Container {
	switch {
	case len(blob) >= 12 && string(blob[0:4]) == "RIFF" && string(blob[8:12]) == "WAVE":
		return ContainerWAV
	case len(blob) >= 4 && string(blob[0:4]) == "fLaC":
		return ContainerFLAC
	case len(blob) >= 4 && string(blob[0:4]) == "OggS":
		return ContainerOGG
	case len(blob) >= 3 && string(blob[0:3]) == "ID3":
		return ContainerMP3
	case len(blob) >= 2 && blob[0] == 0xFF && blob[1]&0xE0 == 0xE0:
		return ContainerMP3
	}
	return ContainerUnknown
}

// Decode parses blob into PCM.
//
// The container is sniffed from the leading bytes; a blob with no
// recognizable magic is handed to each decoder in turn before giving up.
// Failure yields a *DecodeError.
func Decode(blob []byte) (*Audio, error) {
	if len(blob) == 0 {
		return nil, &DecodeError{Container: ContainerUnknown, Err: errors.New("empty blob")}
	}
	if c := SniffContainer(blob); c != ContainerUnknown {
		a, err := decodeAs(blob, c)
		if err != nil {
			return nil, &DecodeError{Container: c, Err: err}
		}
		return a, nil
	}
	for _, c := range []Container{ContainerWAV, ContainerFLAC, ContainerOGG, ContainerMP3} {
		if a, err := decodeAs(blob, c); err == nil {
			return a, nil
		}
	}
	return nil, &DecodeError{Container: ContainerUnknown, Err: errors.New("unrecognized container")}
}

func decodeAs(blob []byte, c Container) (*Audio, error) {
	r := newBlobReader(blob)
	var (
		stream beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch c {
	case ContainerWAV:
		stream, format, err = wav.Decode(r)
	case ContainerFLAC:
		stream, format, err = flac.Decode(r)
	case ContainerOGG:
		stream, format, err = vorbis.Decode(r)
	case ContainerMP3:
		stream, format, err = mp3.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported container %q", string(c))
	}
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	return drainStream(stream, format)
}

// drainStream pulls the whole stream into per-channel float32 slices. Beep
// streams stereo sample pairs; mono sources carry the sample in both slots.
func drainStream(s beep.StreamSeekCloser, format beep.Format) (*Audio, error) {
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", format.SampleRate)
	}
	nch := format.NumChannels
	if nch < 1 {
		return nil, fmt.Errorf("invalid channel count %d", nch)
	}
	if nch > 2 {
		nch = 2
	}

	channels := make([][]float32, nch)
	if total := s.Len(); total > 0 {
		for i := range channels {
			channels[i] = make([]float32, 0, total)
		}
	}

	var buf [512][2]float64
	for {
		n, ok := s.Stream(buf[:])
		for i := 0; i < n; i++ {
			channels[0] = append(channels[0], float32(buf[i][0]))
			if nch == 2 {
				channels[1] = append(channels[1], float32(buf[i][1]))
			}
		}
		if !ok {
			if err := s.Err(); err != nil {
				return nil, err
			}
			break
		}
	}
	return &Audio{SampleRate: int(format.SampleRate), Channels: channels}, nil
}

// blobReader adapts an in-memory blob to the reader shapes the beep decoder
// family expects (io.Reader, io.Seeker, io.ReadCloser).
type blobReader struct {
	*bytes.Reader
}

func newBlobReader(b []byte) blobReader {
	return blobReader{bytes.NewReader(b)}
}

func (blobReader) Close() error { return nil }
