package plan

import (
	"fmt"
	"path/filepath"

	"github.com/productscience/monorange/runconfig"
)

type Checkpoint struct {
	Epoch int    `json:"epoch"`
	Name  string `json:"name"`
	Path  string `json:"path"`
}

func checkpointName(t runconfig.TrainerConfig, epoch int) string {
	if t.SaveAll {
		return fmt.Sprintf("checkpoint_epoch_%d", epoch)
	}
	return "checkpoint"
}

// Checkpoints lists every save the trainer makes. Without save_all each save overwrites
// the same file, so only the last entry survives the run.
func Checkpoints(t runconfig.TrainerConfig) []Checkpoint {
	if t.SaveFrequency < 1 {
		return nil
	}
	var out []Checkpoint
	for epoch := t.SaveFrequency; epoch <= t.MaxEpoch; epoch += t.SaveFrequency {
		name := checkpointName(t, epoch)
		out = append(out, Checkpoint{
			Epoch: epoch,
			Name:  name,
			Path:  filepath.Join(t.SavePath, name+".pth"),
		})
	}
	return out
}

// Evaluated returns the checkpoints the tester loads: the configured one in single mode,
// every saved one from it onwards in all mode. Without save_all only the last save is
// still on disk, so it is the only one that can be evaluated.
func Evaluated(cfg runconfig.Config) ([]Checkpoint, error) {
	saved := Checkpoints(cfg.Trainer)
	if len(saved) == 0 {
		return nil, fmt.Errorf("trainer saves no checkpoints")
	}
	if !cfg.Trainer.SaveAll {
		last := saved[len(saved)-1]
		switch {
		case cfg.Tester.Checkpoint > last.Epoch:
			return nil, fmt.Errorf("checkpoint %d is never saved", cfg.Tester.Checkpoint)
		case cfg.Tester.Mode != "all" && cfg.Tester.Checkpoint != last.Epoch:
			return nil, fmt.Errorf("checkpoint %d is overwritten by epoch %d without save_all",
				cfg.Tester.Checkpoint, last.Epoch)
		}
		return []Checkpoint{last}, nil
	}

	var out []Checkpoint
	for _, c := range saved {
		switch {
		case cfg.Tester.Mode == "all" && c.Epoch >= cfg.Tester.Checkpoint:
			out = append(out, c)
		case c.Epoch == cfg.Tester.Checkpoint:
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("checkpoint %d is never saved", cfg.Tester.Checkpoint)
	}
	return out, nil
}
