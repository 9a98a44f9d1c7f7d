package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/soundcheck-labs/constellation/internal/model"
)

// Constellation fan-out parameters.
const (
	FanValue     = 10
	MinDeltaTime = 0
	MaxDeltaTime = 200
)

// Fingerprint turns a time-sorted peak list into a fingerprint multiset via
// the constellation scheme: every peak is paired, as an anchor, with its
// next FanValue-1 successors. A pair is emitted only when its time delta
// falls strictly between MinDeltaTime and MaxDeltaTime.
//
// The hash is the hexadecimal MD5 digest of the ASCII string
// "{f1}|{f2}|{d}" (base-10, no leading zeros) — a fixed-width namespace
// hash, not a security primitive, chosen so independently computed indexes
// agree byte-for-byte.
func Fingerprint(peaks []model.Peak) []model.Fingerprint {
	var out []model.Fingerprint
	for i := range peaks {
		anchor := peaks[i]
		for j := 1; j < FanValue; j++ {
			k := i + j
			if k >= len(peaks) {
				break
			}
			target := peaks[k]
			d := target.TimeIdx - anchor.TimeIdx
			if d <= MinDeltaTime || d >= MaxDeltaTime {
				continue
			}
			out = append(out, model.Fingerprint{
				Hash:       hashPeakPair(anchor.FreqIdx, target.FreqIdx, d),
				AnchorTime: anchor.TimeIdx,
			})
		}
	}
	return out
}

// hashPeakPair computes the MD5 namespace hash of an (f1, f2, delta) triple.
func hashPeakPair(f1, f2, d int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d|%d|%d", f1, f2, d)))
	return hex.EncodeToString(sum[:])
}
