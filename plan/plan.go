// Package plan derives the settings the external builders compute from a validated run
// config: effective classes, dataset layout, loss weights, learning rates and checkpoints.
package plan

import (
	"fmt"
	"strings"

	"github.com/productscience/monorange/logging"
	"github.com/productscience/monorange/runconfig"
	"github.com/productscience/monorange/runconfig/schema"
)

type Plan struct {
	Classes     []string           `json:"classes"`
	ClassIDs    map[string]int     `json:"class_ids"`
	TrainLayout Layout             `json:"train_layout"`
	TestLayout  Layout             `json:"test_layout"`
	LossWeights map[string]float64 `json:"loss_weights"`
	Schedule    *Schedule          `json:"schedule"`
	Checkpoints []Checkpoint       `json:"checkpoints"`
	Evaluated   []Checkpoint       `json:"evaluated"`
	GPUs        []int              `json:"gpus"`
	FeatureSize [2]int             `json:"feature_size"`
}

func Build(cfg runconfig.Config) (*Plan, error) {
	schedule, err := NewSchedule(cfg.Optimizer, cfg.LRScheduler, cfg.Trainer.MaxEpoch)
	if err != nil {
		return nil, err
	}
	if _, err := RangeEncoderFor(cfg.Dataset.RangeScale); err != nil {
		return nil, fmt.Errorf("%w (registered: %s)", err, strings.Join(RangeScales(), ", "))
	}
	evaluated, err := Evaluated(cfg)
	if err != nil {
		return nil, err
	}
	gpus, err := schema.ParseDeviceList(cfg.Trainer.GPUIDs)
	if err != nil {
		return nil, err
	}

	classes := Classes(cfg.Dataset)
	ids := make(map[string]int, len(classes))
	for _, c := range classes {
		if id, ok := ClassID(c); ok {
			ids[c] = id
		}
	}
	width, height := FeatureSize()

	p := &Plan{
		Classes:     classes,
		ClassIDs:    ids,
		TrainLayout: NewLayout(cfg.Dataset, cfg.Dataset.TrainSplit),
		TestLayout:  NewLayout(cfg.Dataset, cfg.Dataset.TestSplit),
		LossWeights: LossWeights(cfg.Model),
		Schedule:    schedule,
		Checkpoints: Checkpoints(cfg.Trainer),
		Evaluated:   evaluated,
		GPUs:        gpus,
		FeatureSize: [2]int{width, height},
	}
	logging.Debug("Built run plan", logging.Plan,
		"classes", p.Classes, "loss_terms", len(p.LossWeights), "checkpoints", len(p.Checkpoints))
	return p, nil
}
