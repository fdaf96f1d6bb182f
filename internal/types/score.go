//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is a numeric score decoded leniently from model output: numbers, numeric
// strings ("7", "72%") and null are all accepted.
type Score float64

// UnmarshalJSON implements json.Unmarshaler
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(str), "%"))
		if str == "" {
			*s = 0
			return nil
		}
		if i := strings.Index(str, "/"); i > 0 {
			str = strings.TrimSpace(str[:i])
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid score %q: %w", str, err)
		}
		*s = Score(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Score(v)
	return nil
}

// Int rounds the score to the nearest whole number.
func (s Score) Int() int {
	return int(math.Round(float64(s)))
}

// Clamp bounds the score to [lo, hi].
func (s Score) Clamp(lo, hi float64) Score {
	v := float64(s)
	if math.IsNaN(v) || v < lo {
		return Score(lo)
	}
	if v > hi {
		return Score(hi)
	}
	return s
}
