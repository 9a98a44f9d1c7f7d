package acousticdna

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/soundcheck-labs/constellation/internal/align"
	"github.com/soundcheck-labs/constellation/internal/audio"
	"github.com/soundcheck-labs/constellation/internal/fingerprint"
	"github.com/soundcheck-labs/constellation/internal/model"
	"github.com/soundcheck-labs/constellation/internal/store"
	"github.com/soundcheck-labs/constellation/pkg/logger"
)

// Service ties the decode -> STFT -> peaks -> fingerprint -> align pipeline
// together behind two operations: ingesting a reference recording and
// comparing a sample against a previously ingested reference.
type Service struct {
	cfg   Config
	store Store
	log   Logger
}

// NewService builds a Service from the given options, defaulting to an
// 8-entry in-memory LRU store and the package's singleton logger.
func NewService(opts ...Option) (*Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.Store == nil {
		cfg.Store = store.NewLRU(cfg.StoreCapacity)
	}

	return &Service{
		cfg:   *cfg,
		store: cfg.Store,
		log:   cfg.Logger,
	}, nil
}

// track is the materialised pipeline output for one decoded recording.
type track struct {
	fingerprints []model.Fingerprint
	timesteps    int
	lengthSec    float64
}

// analyze runs C1-C4 over r: decode, spectrogram, peaks, fingerprint.
func (s *Service) analyze(ctx context.Context, r io.Reader) (*track, error) {
	frames, errs := audio.DecodeStream(ctx, r)
	return s.analyzeFrames(frames, errs)
}

// analyzeFrames runs C2-C4 over an already-decoded frame stream, shared by
// the MP3 (analyze) and WAV (analyzeWAV) entry points.
func (s *Service) analyzeFrames(frames <-chan model.Frame, errs <-chan error) (*track, error) {
	spec, err := fingerprint.ComputeSpectrogram(frames)
	if err != nil {
		return nil, fmt.Errorf("computing spectrogram: %w", err)
	}
	if decErr := <-errs; decErr != nil {
		return nil, decErr
	}

	if spec.Height == 0 {
		return nil, ErrEmptyInput
	}

	peaks := fingerprint.ExtractPeaks(spec)
	fps := fingerprint.Fingerprint(peaks)

	return &track{
		fingerprints: fps,
		timesteps:    spec.Height,
		lengthSec:    spec.LengthSec,
	}, nil
}

// IngestReference decodes and fingerprints r, stores the result under a
// freshly minted ULID, and returns that id.
func (s *Service) IngestReference(ctx context.Context, r io.Reader) (string, error) {
	t, err := s.analyze(ctx, r)
	if err != nil {
		return "", err
	}
	return s.commitReference(t), nil
}

// IngestReferenceWAV is the PCM-WAV counterpart to IngestReference, used by
// the CLI so local fixtures need not be transcoded to MP3 first.
func (s *Service) IngestReferenceWAV(ctx context.Context, r io.ReadSeeker) (string, error) {
	frames, errs := audio.DecodeWAVStream(ctx, r)
	t, err := s.analyzeFrames(frames, errs)
	if err != nil {
		return "", err
	}
	return s.commitReference(t), nil
}

func (s *Service) commitReference(t *track) string {
	id := store.NewULID()
	s.store.Put(id, &model.ReferenceSample{
		ID:           id,
		Fingerprints: t.fingerprints,
		Timesteps:    t.timesteps,
		LengthSec:    t.lengthSec,
	})
	s.log.Infof("ingested reference %s: %d fingerprints, %.2fs", id, len(t.fingerprints), t.lengthSec)
	return id
}

// Compare decodes and fingerprints sample, aligns it against the reference
// previously ingested under id, and converts the resulting window offsets
// into seconds using each track's own length/timesteps ratio.
func (s *Service) Compare(ctx context.Context, id string, sample io.Reader) (CompareResult, error) {
	reference, ok := s.store.Get(id)
	if !ok {
		return CompareResult{}, ErrUnknownReference
	}
	t, err := s.analyze(ctx, sample)
	if err != nil {
		return CompareResult{}, err
	}
	return s.finishCompare(id, reference, t)
}

// CompareWAV is the PCM-WAV counterpart to Compare, used by the CLI.
func (s *Service) CompareWAV(ctx context.Context, id string, sample io.ReadSeeker) (CompareResult, error) {
	reference, ok := s.store.Get(id)
	if !ok {
		return CompareResult{}, ErrUnknownReference
	}
	frames, errs := audio.DecodeWAVStream(ctx, sample)
	t, err := s.analyzeFrames(frames, errs)
	if err != nil {
		return CompareResult{}, err
	}
	return s.finishCompare(id, reference, t)
}

func (s *Service) finishCompare(id string, reference *model.ReferenceSample, t *track) (CompareResult, error) {
	report, err := align.Align(reference.Fingerprints, t.fingerprints)
	if err != nil {
		if errors.Is(err, align.ErrNoMatches) {
			return CompareResult{}, fmt.Errorf("%w: %v", align.ErrNoMatches, err)
		}
		return CompareResult{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.log.Debugf("compare %s: offset=%d occurrences=%d first_match=%d",
		id, report.MostCommonOffset, report.MostCommonOffsetOccurrences, report.FirstSampleOffsetMatch)

	return CompareResult{
		OffsetSeconds:           reference.LengthSec * float64(report.MostCommonOffset) / float64(reference.Timesteps),
		SampleFirstMatchSeconds: t.lengthSec * float64(report.FirstSampleOffsetMatch) / float64(t.timesteps),
	}, nil
}

// Close is a no-op unless the injected store requires explicit teardown
// (e.g. internal/store.Durable); callers that supply such a store should
// close it themselves after the Service is done with it.
func (s *Service) Close() error {
	return nil
}
