package acousticdna

import "github.com/soundcheck-labs/constellation/internal/model"

// Store is the reference-sample store contract: two operations, Put and
// Get. The in-memory LRU (internal/store.LRU) is the default backing; a
// durable sqlite-backed alternative (internal/store.Durable) satisfies the
// same interface for callers who opt into persistence explicitly.
type Store interface {
	Put(id string, sample *model.ReferenceSample)
	Get(id string) (*model.ReferenceSample, bool)
}

// Logger is the logging interface used by the service, matching
// pkg/logger's instance methods so callers can supply their own
// implementation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
