package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/soundcheck-labs/constellation/internal/model"
)

// FrameChannelCapacity is the reference hand-off size between the decoder
// and its consumer: large enough that a slow STFT stalls the decoder rather
// than letting it buffer the whole track in memory.
const FrameChannelCapacity = 1024

// samplesPerFrame controls how many interleaved sample pairs are grouped
// into one model.Frame before being pushed onto the channel. go-mp3 decodes
// in small internal chunks; batching keeps channel traffic reasonable
// without building up unbounded backlog.
const samplesPerFrame = 4096

// DecodeStream decodes an MP3 byte stream into a channel of PCM frames.
// It buffers at most FrameChannelCapacity frames ahead of its consumer: the
// returned channel has that capacity and the decoding goroutine blocks on
// send once it is full.
//
// The returned error channel carries at most one error: a DecodeError if
// the MP3 stream is malformed, or nil-never (the channel is simply closed)
// on clean end-of-stream. If ctx is cancelled mid-decode both channels are
// closed without an error being sent and the goroutine returns without
// further side effects.
func DecodeStream(ctx context.Context, r io.Reader) (<-chan model.Frame, <-chan error) {
	frames := make(chan model.Frame, FrameChannelCapacity)
	errs := make(chan error, 1)

	go func() {
		defer close(frames)
		defer close(errs)

		dec, err := mp3.NewDecoder(r)
		if err != nil {
			errs <- &DecodeError{Cause: err}
			return
		}

		sampleRate := dec.SampleRate()
		buf := make([]byte, samplesPerFrame*4) // go-mp3 emits 16-bit stereo PCM

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			n, readErr := io.ReadFull(dec, buf)
			if n > 0 {
				frame := bytesToFrame(buf[:n], sampleRate)
				select {
				case frames <- frame:
				case <-ctx.Done():
					return
				}
			}
			if readErr != nil {
				if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
					return
				}
				errs <- &DecodeError{Cause: readErr}
				return
			}
		}
	}()

	return frames, errs
}

// bytesToFrame converts a buffer of little-endian 16-bit stereo PCM samples
// into a Frame of interleaved float64 samples normalised to [-1, 1].
func bytesToFrame(b []byte, sampleRate int) model.Frame {
	n := len(b) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(b[i*2:]))
		samples[i] = float64(s) / 32767.0
	}
	return model.Frame{
		SampleRate: sampleRate,
		Channels:   2,
		Samples:    samples,
	}
}

// DecodeError wraps any failure raised while demuxing or decoding the MP3
// stream. It is surfaced to HTTP callers as a 400.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode mp3: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
