// Package media turns opaque media blobs into decoded PCM for the echo
// practice pipeline.
//
//   - [Decode] sniffs the container (WAV, FLAC, OGG/Vorbis, MP3) and decodes
//     the whole blob into float PCM.
//   - [DecodeCache] memoizes decodes by [Fingerprint], coalescing concurrent
//     requests for one key and evicting oldest-first past a fixed capacity.
//   - [ExtractMonoSegment] slices a decoded clip down to the mono samples of
//     one [start, end) region.
//   - [ScanMP3Frames] and [CutMP3] give the offload worker frame-aligned
//     access to an MP3 region without decoding the whole file.
//
// Decoded audio is immutable once produced and shared read-only with every
// downstream consumer for the lifetime of its cache entry.
package media
