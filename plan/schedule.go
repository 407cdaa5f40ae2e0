package plan

import (
	"fmt"
	"math"

	"github.com/productscience/monorange/runconfig"
)

const (
	WarmupEpochs = 5
	WarmupInitLR = 1e-5
	cosineMinLR  = 2e-5
)

// Schedule is the per-epoch learning rate. Epochs are 0-based.
type Schedule struct {
	BaseLR    float64 `json:"base_lr"`
	Type      string  `json:"type"`
	Warmup    bool    `json:"warmup"`
	DecayRate float64 `json:"decay_rate"`
	DecayList []int   `json:"decay_list"`
	MaxEpoch  int     `json:"max_epoch"`
}

func NewSchedule(opt runconfig.OptimizerConfig, sched runconfig.LRSchedulerConfig, maxEpoch int) (*Schedule, error) {
	if opt.LR <= 0 {
		return nil, fmt.Errorf("learning rate must be positive, got %v", opt.LR)
	}
	if maxEpoch < 1 {
		return nil, fmt.Errorf("max_epoch must be at least 1, got %d", maxEpoch)
	}
	switch sched.Type {
	case "step", "cos":
	default:
		return nil, fmt.Errorf("unsupported scheduler %q", sched.Type)
	}
	return &Schedule{
		BaseLR:    opt.LR,
		Type:      sched.Type,
		Warmup:    sched.Warmup,
		DecayRate: sched.DecayRate,
		DecayList: append([]int(nil), sched.DecayList...),
		MaxEpoch:  maxEpoch,
	}, nil
}

func (s *Schedule) LR(epoch int) (float64, error) {
	if epoch < 0 || epoch >= s.MaxEpoch {
		return 0, fmt.Errorf("epoch %d outside [0, %d)", epoch, s.MaxEpoch)
	}
	if s.Warmup && epoch < WarmupEpochs {
		return WarmupInitLR + (s.BaseLR-WarmupInitLR)*(1-math.Cos(math.Pi*float64(epoch)/WarmupEpochs))/2, nil
	}
	if s.Type == "cos" {
		floor := math.Min(cosineMinLR, s.BaseLR)
		return floor + (s.BaseLR-floor)*(1+math.Cos(math.Pi*float64(epoch)/float64(s.MaxEpoch)))/2, nil
	}
	lr := s.BaseLR
	for _, step := range s.DecayList {
		if epoch >= step {
			lr *= s.DecayRate
		}
	}
	return lr, nil
}

// Epochs returns the learning rate of every epoch.
func (s *Schedule) Epochs() []float64 {
	out := make([]float64, s.MaxEpoch)
	for e := range out {
		out[e], _ = s.LR(e)
	}
	return out
}
