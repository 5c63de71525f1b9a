package device

import (
	"regexp"
	"strconv"
)

// BatchEntry is one per-command result extracted from the device's
// "execute batch lastlog" output.
type BatchEntry struct {
	// StatusCode is the device's result code. Negative codes are failures.
	StatusCode int

	// Command is the command text the code applies to.
	Command string
}

// lastlogPattern is the lastlog line grammar: an optional minus sign,
// digits, a colon, whitespace, then the command text. Lines not matching
// (banners, prompt echoes) carry no result and are skipped.
var lastlogPattern = regexp.MustCompile(`^(-?[0-9]\d*):\s+(.*)$`)

// ParseBatchLastlog extracts every (status code, command) entry from lastlog
// output, in order. Non-matching lines are ignored; they are not an error.
func ParseBatchLastlog(lines []string) []BatchEntry {
	var entries []BatchEntry
	for _, line := range lines {
		m := lastlogPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		entries = append(entries, BatchEntry{StatusCode: code, Command: m[2]})
	}
	return entries
}

// Failures filters a lastlog parse down to the failed entries. Only negative
// status codes represent failures.
func Failures(entries []BatchEntry) []BatchEntry {
	var failed []BatchEntry
	for _, entry := range entries {
		if entry.StatusCode < 0 {
			failed = append(failed, entry)
		}
	}
	return failed
}
