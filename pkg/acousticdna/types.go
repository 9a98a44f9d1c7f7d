package acousticdna

// CompareResult is the seconds-denominated answer to a reference/sample
// alignment query, ready to hand back across the HTTP façade.
type CompareResult struct {
	// OffsetSeconds is the position inside the reference track at which
	// the sample begins: reference.LengthSec * most_common_offset /
	// reference.Timesteps.
	OffsetSeconds float64

	// SampleFirstMatchSeconds is the position inside the sample at which
	// the first winning-offset fingerprint occurs: sample.LengthSec *
	// first_sample_offset_match / sample.Timesteps.
	SampleFirstMatchSeconds float64
}
