package media

import (
	"errors"
	"fmt"
)

// FrameInfo locates one MPEG audio frame inside a blob.
type FrameInfo struct {
	Offset int     // byte offset of the frame header
	Size   int     // frame length in bytes, header included
	Time   float64 // start time in seconds, counted from the first frame
}

// ScanMP3Frames walks the MPEG Layer III frame headers in blob and returns
// their offsets and timing. A leading ID3v2 tag is skipped; junk between
// frames is tolerated by resynchronizing on the next header byte. A blob
// yielding no valid frame fails.
func ScanMP3Frames(blob []byte) ([]FrameInfo, error) {
	pos := 0
	if len(blob) >= 10 && string(blob[0:3]) == "ID3" {
		// ID3v2 size is a 4-byte syncsafe integer after the 6-byte preamble.
		size := int(blob[6]&0x7F)<<21 | int(blob[7]&0x7F)<<14 |
			int(blob[8]&0x7F)<<7 | int(blob[9]&0x7F)
		pos = 10 + size
	}

	var frames []FrameInfo
	t := 0.0
	for pos+4 <= len(blob) {
		hdr, ok := parseMP3Header(blob[pos:])
		if !ok {
			pos++
			continue
		}
		if pos+hdr.size > len(blob) {
			break // truncated final frame
		}
		frames = append(frames, FrameInfo{Offset: pos, Size: hdr.size, Time: t})
		t += hdr.duration
		pos += hdr.size
	}
	if len(frames) == 0 {
		return nil, errors.New("media: no MPEG frames found")
	}
	return frames, nil
}

// CutMP3 returns the frame-aligned byte range of blob covering
// [startSec, endSec) plus the time of the cut's first frame relative to the
// blob start. The range begins at the last frame starting at or before
// startSec and ends after the last frame starting before endSec, so frames
// are never split. The returned slice aliases blob.
func CutMP3(blob []byte, startSec, endSec float64) (chunk []byte, chunkStart float64, err error) {
	if endSec <= startSec {
		return nil, 0, fmt.Errorf("media: empty mp3 cut range [%v, %v)", startSec, endSec)
	}
	frames, err := ScanMP3Frames(blob)
	if err != nil {
		return nil, 0, err
	}

	first := 0
	for i, f := range frames {
		if f.Time > startSec {
			break
		}
		first = i
	}
	last := first
	for i := first; i < len(frames) && frames[i].Time < endSec; i++ {
		last = i
	}

	f0, f1 := frames[first], frames[last]
	return blob[f0.Offset : f1.Offset+f1.Size], f0.Time, nil
}

type mp3Header struct {
	size     int
	duration float64
}

// MPEG audio header tables, Layer III only.
var (
	mpeg1L3Bitrates   = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	mpeg2L3Bitrates   = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
	mpeg1SampleRates  = [4]int{44100, 48000, 32000, 0}
	mpeg2SampleRates  = [4]int{22050, 24000, 16000, 0}
	mpeg25SampleRates = [4]int{11025, 12000, 8000, 0}
)

func parseMP3Header(b []byte) (mp3Header, bool) {
	if len(b) < 4 {
		return mp3Header{}, false
	}
	if b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return mp3Header{}, false
	}
	version := (b[1] >> 3) & 0x03 // 0: MPEG2.5, 1: reserved, 2: MPEG2, 3: MPEG1
	layer := (b[1] >> 1) & 0x03   // 1: Layer III
	if version == 1 || layer != 1 {
		return mp3Header{}, false
	}
	bitrateIdx := (b[2] >> 4) & 0x0F
	sampleIdx := (b[2] >> 2) & 0x03
	padding := int((b[2] >> 1) & 0x01)
	if bitrateIdx == 0 || bitrateIdx == 15 || sampleIdx == 3 {
		// Free-form bitrate streams are not worth the scan complexity.
		return mp3Header{}, false
	}

	var bitrate, sampleRate, samples, coef int
	switch version {
	case 3: // MPEG1
		bitrate = mpeg1L3Bitrates[bitrateIdx]
		sampleRate = mpeg1SampleRates[sampleIdx]
		samples, coef = 1152, 144
	case 2: // MPEG2
		bitrate = mpeg2L3Bitrates[bitrateIdx]
		sampleRate = mpeg2SampleRates[sampleIdx]
		samples, coef = 576, 72
	default: // MPEG2.5
		bitrate = mpeg2L3Bitrates[bitrateIdx]
		sampleRate = mpeg25SampleRates[sampleIdx]
		samples, coef = 576, 72
	}

	size := coef*bitrate*1000/sampleRate + padding
	if size < 4 {
		return mp3Header{}, false
	}
	return mp3Header{
		size:     size,
		duration: float64(samples) / float64(sampleRate),
	}, true
}
