package station

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatError reports a frequency descriptor that could not be parsed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse frequency %q: %s", e.Input, e.Reason)
}

// ParseFrequency parses a free-text frequency descriptor into Hz.
//
// The register reports values like "900 MHz", "758-768 MHz", "1.800 MHz" and
// "2.6 MHz". Only MHz is accepted; a range resolves to its arithmetic mean; a
// dot followed by exactly three digits is a thousands separator, any other dot
// is a decimal point. Values under 100 MHz are taken to be mislabeled GHz and
// multiplied by 1000, a quirk of the source data kept on purpose.
func ParseFrequency(text string) (int64, error) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "")
	if !strings.Contains(s, "mhz") {
		return 0, &FormatError{Input: text, Reason: "only MHz frequencies are supported"}
	}
	s = strings.ReplaceAll(s, "mhz", "")

	var mhz float64
	if strings.Contains(s, "-") {
		var tokens []string
		for _, part := range strings.Split(s, "-") {
			if part = strings.TrimSpace(part); part != "" {
				tokens = append(tokens, part)
			}
		}
		if len(tokens) != 2 {
			return 0, &FormatError{Input: text, Reason: "a range must have exactly two values"}
		}

		low, err := parseNumber(text, tokens[0])
		if err != nil {
			return 0, err
		}
		high, err := parseNumber(text, tokens[1])
		if err != nil {
			return 0, err
		}
		mhz = (low + high) / 2
	} else {
		var err error
		mhz, err = parseNumber(text, s)
		if err != nil {
			return 0, err
		}
	}

	if mhz < 100 {
		mhz *= 1000
	}

	return int64(math.Round(mhz * 1_000_000)), nil
}

// parseNumber parses one numeric token, stripping a dot that acts as a
// thousands separator (exactly three digits after the last dot).
func parseNumber(input, token string) (float64, error) {
	if i := strings.LastIndex(token, "."); i >= 0 && len(token)-i-1 == 3 {
		token = token[:i] + token[i+1:]
	}

	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, &FormatError{Input: input, Reason: fmt.Sprintf("invalid number %q", token)}
	}
	return f, nil
}
