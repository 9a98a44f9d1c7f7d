package acousticdna

import "errors"

// ErrEmptyInput is raised when a decoded track yields no usable spectrogram
// (zero-length PCM, or too short to fill a single FFT window).
var ErrEmptyInput = errors.New("acousticdna: empty input")

// ErrUnknownReference is raised when Compare is called with an id the store
// has no sample for (a miss, or an entry evicted by the LRU policy).
var ErrUnknownReference = errors.New("acousticdna: unknown reference")

// ErrInternal wraps an unexpected invariant violation — a bug, not a bad
// request.
var ErrInternal = errors.New("acousticdna: internal error")
