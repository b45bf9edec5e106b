// Package mediatest synthesizes small clips for tests.
//
// Generators return raw mono samples; WAV wraps per-channel samples in a
// RIFF container so decoder-facing tests can feed real files.
package mediatest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Tone synthesizes a half-amplitude sine at freq.
func Tone(rate int, freq, seconds float64) []float32 {
	n := int(seconds * float64(rate))
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return samples
}

// WAV assembles a 16-bit PCM RIFF/WAVE file from per-channel samples.
// All channels must be the same length.
func WAV(rate int, channels ...[]float32) []byte {
	numCh := len(channels)
	n := len(channels[0])
	blockAlign := numCh * 2
	dataLen := n * blockAlign

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(numCh))
	binary.Write(buf, binary.LittleEndian, uint32(rate))
	binary.Write(buf, binary.LittleEndian, uint32(rate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	for i := 0; i < n; i++ {
		for ch := 0; ch < numCh; ch++ {
			binary.Write(buf, binary.LittleEndian, int16(channels[ch][i]*32767))
		}
	}
	return buf.Bytes()
}

// ToneWAV is Tone wrapped in a mono WAV container.
func ToneWAV(rate int, freq, seconds float64) []byte {
	return WAV(rate, Tone(rate, freq, seconds))
}
