package audio

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestDecodeStreamInvalidMP3ReturnsDecodeError(t *testing.T) {
	frames, errs := DecodeStream(context.Background(), bytes.NewReader([]byte("not an mp3 stream")))

	for range frames {
		t.Error("expected no frames from an invalid MP3 stream")
	}

	err := <-errs
	if err == nil {
		t.Fatal("expected a decode error for invalid input")
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("expected a *DecodeError, got %T: %v", err, err)
	}
}

func TestDecodeStreamEmptyInput(t *testing.T) {
	frames, errs := DecodeStream(context.Background(), bytes.NewReader(nil))

	for range frames {
		t.Error("expected no frames from empty input")
	}

	if err := <-errs; err == nil {
		t.Fatal("expected a decode error for empty input")
	}
}

func TestDecodeStreamRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, errs := DecodeStream(ctx, bytes.NewReader([]byte("not an mp3 stream")))

	// Drain both channels; a cancelled context must not hang the goroutine.
	for range frames {
	}
	<-errs
}

func TestBytesToFrameNormalisesToUnitRange(t *testing.T) {
	// Two little-endian int16 samples: max positive and max negative.
	b := []byte{0xFF, 0x7F, 0x00, 0x80}
	frame := bytesToFrame(b, 44100)

	if frame.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %d", frame.SampleRate)
	}
	if frame.Channels != 2 {
		t.Errorf("expected 2 channels, got %d", frame.Channels)
	}
	if len(frame.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(frame.Samples))
	}
	if frame.Samples[0] <= 0.99 || frame.Samples[0] > 1.0 {
		t.Errorf("expected first sample near +1.0, got %f", frame.Samples[0])
	}
	if frame.Samples[1] >= -0.99 {
		t.Errorf("expected second sample near -1.0, got %f", frame.Samples[1])
	}
}

func TestDecodeErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &DecodeError{Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("expected DecodeError to unwrap to its cause")
	}
}
