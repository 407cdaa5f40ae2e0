package plan

import (
	"fmt"
	"sort"
	"sync"
)

// RangeEncoder turns an object's camera depth into the regression target, given the
// scale factor of the applied crop.
type RangeEncoder func(depth, cropScale float64) float64

var (
	rangeMu       sync.RWMutex
	rangeEncoders = map[string]RangeEncoder{
		"normal":  func(z, s float64) float64 { return z * s },
		"inverse": func(z, s float64) float64 { return z / s },
		"none":    func(z, _ float64) float64 { return z },
	}
)

// RegisterRangeEncoder adds or replaces the encoder for a range_scale value. The schema
// enum must be extended to accept the same name.
func RegisterRangeEncoder(name string, enc RangeEncoder) {
	rangeMu.Lock()
	defer rangeMu.Unlock()
	rangeEncoders[name] = enc
}

func RangeEncoderFor(scale string) (RangeEncoder, error) {
	rangeMu.RLock()
	defer rangeMu.RUnlock()
	enc, ok := rangeEncoders[scale]
	if !ok {
		return nil, fmt.Errorf("no range encoder for %q", scale)
	}
	return enc, nil
}

func RangeScales() []string {
	rangeMu.RLock()
	defer rangeMu.RUnlock()
	out := make([]string, 0, len(rangeEncoders))
	for k := range rangeEncoders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
