package audio

import (
	"context"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/soundcheck-labs/constellation/internal/model"
)

// DecodeWAVStream decodes a PCM WAV stream into the same channel shape as
// DecodeStream, so the rest of the pipeline (C2 onward) never has to know
// which container a track arrived in. Used by the CLI ingest/compare
// subcommands, which accept WAV fixtures alongside MP3 uploads.
func DecodeWAVStream(ctx context.Context, r io.Reader) (<-chan model.Frame, <-chan error) {
	frames := make(chan model.Frame, FrameChannelCapacity)
	errs := make(chan error, 1)

	go func() {
		defer close(frames)
		defer close(errs)

		rs, ok := r.(io.ReadSeeker)
		if !ok {
			errs <- &DecodeError{Cause: fmt.Errorf("wav decoding requires a seekable reader")}
			return
		}

		dec := wav.NewDecoder(rs)
		if !dec.IsValidFile() {
			errs <- &DecodeError{Cause: fmt.Errorf("not a valid WAV file")}
			return
		}

		buf := &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: int(dec.NumChans), SampleRate: int(dec.SampleRate)},
			Data:           make([]int, samplesPerFrame),
			SourceBitDepth: int(dec.BitDepth),
		}

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			n, err := dec.PCMBuffer(buf)
			if err != nil && err != io.EOF {
				errs <- &DecodeError{Cause: err}
				return
			}
			if n > 0 {
				samples := make([]float64, n)
				maxVal := float64(int(1) << (uint(dec.BitDepth) - 1))
				for i := 0; i < n; i++ {
					samples[i] = float64(buf.Data[i]) / maxVal
				}

				frame := model.Frame{
					SampleRate: int(dec.SampleRate),
					Channels:   int(dec.NumChans),
					Samples:    samples,
				}
				select {
				case frames <- frame:
				case <-ctx.Done():
					return
				}
			}
			if err == io.EOF || n == 0 {
				return
			}
		}
	}()

	return frames, errs
}
