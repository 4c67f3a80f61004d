// Package timeline is the in-memory representation of a CapCut draft
// project: materials, tracks, segments and time ranges. It supports
// loading, validating, mutating and serializing project documents.
//
// CapCut writes far more fields than this engine understands. Every
// document type therefore keeps unknown JSON fields opaquely and writes
// them back on serialization, so a load/mutate/save cycle never
// destroys editor-specific data.
package timeline

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// MicrosecondsPerSecond converts between the seconds used by planning
// and the integer microseconds used by draft documents.
const MicrosecondsPerSecond = 1_000_000

// Micros converts seconds to integer microseconds, truncating.
func Micros(seconds float64) int64 {
	return int64(seconds * MicrosecondsPerSecond)
}

// Seconds converts integer microseconds to seconds.
func Seconds(us int64) float64 {
	return float64(us) / MicrosecondsPerSecond
}

// FormatMicros renders a microsecond duration as M:SS.
func FormatMicros(us int64) string {
	total := us / MicrosecondsPerSecond
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// TimeRange is a (start, duration) pair in microseconds.
// source_timerange indexes into a material, target_timerange into the
// track's timeline.
type TimeRange struct {
	Start    int64 `json:"start"`
	Duration int64 `json:"duration"`
}

func NewTimeRange(start, duration int64) *TimeRange {
	return &TimeRange{Start: start, Duration: duration}
}

func (r *TimeRange) End() int64 {
	return r.Start + r.Duration
}

// NewToken generates an object id in CapCut's format, an uppercase
// UUID.
func NewToken() string {
	return strings.ToUpper(uuid.NewString())
}

// NewNumericID generates the numeric-string id CapCut uses for
// local_material_id fields.
func NewNumericID() string {
	u := uuid.New()
	digits := new(big.Int).SetBytes(u[:]).String()
	if len(digits) > 19 {
		digits = digits[:19]
	}
	return digits
}

// extractKnown unmarshals data into a raw key map, decodes dst from it,
// and strips the known keys so the remainder can be kept as opaque
// passthrough.
func extractKnown(data []byte, dst any, known []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	return raw, nil
}

// mergeKnown copies the opaque fields and overlays the known ones,
// producing the map to serialize. Map marshaling sorts keys, so output
// is deterministic.
func mergeKnown(extra map[string]json.RawMessage, known map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(extra)+len(known))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range known {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = b
	}
	return out, nil
}
