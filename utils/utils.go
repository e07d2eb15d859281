package utils

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 form used in field records (microseconds, UTC, no zone suffix)
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Sha512String hashes and encodes in hex the result
func Sha512String(s string) string {
	hash := sha512.New()
	hash.Write([]byte(s))
	return hex.EncodeToString(hash.Sum(nil))
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout and RFC 3339 strings
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err == nil {
		return t.UTC(), nil
	}
	if t, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
		return t.UTC().Truncate(time.Microsecond), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
}
