package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"
)

// DateLayout is the textual form used when matching against date cells
const DateLayout = "2006-01-02 15:04:05"

// RenderCell returns the string form of a cell used for matching.
// nil and NaN render as "", dates use DateLayout, numbers use their
// shortest decimal form. A value cast cannot handle falls back to fmt.
func RenderCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(DateLayout)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format(DateLayout)
	case float64:
		if math.IsNaN(val) {
			return ""
		}
	case float32:
		if math.IsNaN(float64(val)) {
			return ""
		}
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
