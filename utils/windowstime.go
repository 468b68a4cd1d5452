package utils

import "time"

// filetimeUnixEpochDelta is the number of seconds between the FILETIME epoch
// (1601-01-01 UTC) and the Unix epoch (1970-01-01 UTC).
const filetimeUnixEpochDelta = 11644473600

// WindowsTime holds a raw FILETIME: a 64-bit count of 100-ns intervals since
// 1601-01-01 UTC.
type WindowsTime struct {
	Stamp uint64
}

// ConvertToIsoTime renders the timestamp in UTC+9 per the record sink's
// display convention. A zero stamp (never set) renders as "---".
func (wt WindowsTime) ConvertToIsoTime() string {
	if wt.Stamp == 0 {
		return "---"
	}
	loc := time.FixedZone("+09:00", 9*3600)
	unixSeconds := int64(wt.Stamp/10_000_000) - filetimeUnixEpochDelta
	return time.Unix(unixSeconds, 0).In(loc).Format("2006-01-02T15:04:05-07:00")
}

// ToUnix returns the whole-second Unix timestamp represented by the FILETIME,
// discarding sub-second precision.
func (wt WindowsTime) ToUnix() int64 {
	return int64(wt.Stamp/10_000_000) - filetimeUnixEpochDelta
}

// IsZero reports whether the timestamp was never populated.
func (wt WindowsTime) IsZero() bool {
	return wt.Stamp == 0
}

// NewWindowsTimeFromUnix round-trips a Unix second count back into a FILETIME
// stamp (whole seconds only); used by the round-trip test of property 8.
func NewWindowsTimeFromUnix(unixSeconds int64) WindowsTime {
	return WindowsTime{Stamp: uint64(unixSeconds+filetimeUnixEpochDelta) * 10_000_000}
}
