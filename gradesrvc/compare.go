package gradesrvc

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// trimTrailingNewline removes a single trailing line break, so a
// program that does or does not end its output with "\n" is treated
// the same under the exact rule.
func trimTrailingNewline(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	b = bytes.TrimSuffix(b, []byte("\r"))
	return b
}

func compareExact(expected, actual []byte) bool {
	return bytes.Equal(trimTrailingNewline(expected), trimTrailingNewline(actual))
}

// compareNormalized collapses every run of whitespace to a single
// space before comparing, which also drops leading and trailing
// whitespace.
func compareNormalized(expected, actual []byte) bool {
	normalize := func(b []byte) string {
		return strings.Join(strings.Fields(string(b)), " ")
	}
	return normalize(expected) == normalize(actual)
}

// compareTolerance parses both outputs as sequences of numbers and
// passes when every pair differs by less than epsilon. Any parse
// failure or length mismatch is a fail, not an error.
func compareTolerance(expected, actual []byte, epsilon float64) bool {
	if epsilon <= 0 {
		epsilon = 1e-6
	}
	expNums, ok := parseNumbers(expected)
	if !ok {
		return false
	}
	actNums, ok := parseNumbers(actual)
	if !ok {
		return false
	}
	if len(expNums) != len(actNums) {
		return false
	}
	for i := range expNums {
		if math.Abs(expNums[i]-actNums[i]) >= epsilon {
			return false
		}
	}
	return true
}

func parseNumbers(b []byte) ([]float64, bool) {
	fields := strings.Fields(string(b))
	nums := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		nums[i] = v
	}
	return nums, true
}

// roundScore rounds to 4 decimal places so equal submissions always
// serialize to the same score.
func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
