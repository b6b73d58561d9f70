package daily

import (
	"crypto/sha256"
	"math/big"
	"time"
)

// dateLayout is the ISO calendar date used for keys and seeds.
const dateLayout = "2006-01-02"

// seedSeparator joins date and category in the selection seed.
const seedSeparator = "|"

// DateKey returns YYYY-MM-DD for t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// PreviousDateKey returns the calendar day before dateKey, or "" if dateKey
// doesn't parse.
func PreviousDateKey(dateKey string) string {
	d, err := time.Parse(dateLayout, dateKey)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, -1).Format(dateLayout)
}

// WordIndex maps (dateKey, category) to an index in [0, n).
//
// The full SHA-256 digest of "date|category" is read as a big-endian unsigned
// integer and reduced mod n, so any implementation using the same seed format
// picks the same word.
func WordIndex(dateKey, category string, n int) int {
	if n <= 0 {
		return 0
	}
	sum := sha256.Sum256([]byte(dateKey + seedSeparator + category))
	v := new(big.Int).SetBytes(sum[:])
	return int(v.Mod(v, big.NewInt(int64(n))).Int64())
}
