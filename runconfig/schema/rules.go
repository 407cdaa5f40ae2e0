package schema

import (
	"fmt"
)

func defaultRules() []Rule {
	return []Rule{
		{
			Name:     "range-order",
			Paths:    []string{"model.range_min", "model.range_max"},
			Expected: "range_min < range_max",
			Check: func(v Values) error {
				lo, ok1 := FloatValue(v, "model.range_min")
				hi, ok2 := FloatValue(v, "model.range_max")
				if !ok1 || !ok2 {
					return nil
				}
				if lo >= hi {
					return fmt.Errorf("range_min %v is not below range_max %v", lo, hi)
				}
				return nil
			},
		},
		{
			Name:     "head-split",
			Paths:    []string{"model.hidden_dim", "model.nheads"},
			Expected: "hidden_dim divisible by nheads",
			Check: func(v Values) error {
				dim, ok1 := IntValue(v, "model.hidden_dim")
				heads, ok2 := IntValue(v, "model.nheads")
				if !ok1 || !ok2 || heads < 1 {
					return nil
				}
				if dim%heads != 0 {
					return fmt.Errorf("hidden_dim %d is not divisible by nheads %d", dim, heads)
				}
				return nil
			},
		},
		{
			Name:     "checkpoint-saved",
			Paths:    []string{"tester.checkpoint", "trainer.max_epoch", "trainer.save_frequency"},
			Expected: "an epoch in [1, max_epoch] that is a multiple of save_frequency",
			Check: func(v Values) error {
				ckpt, ok1 := IntValue(v, "tester.checkpoint")
				maxEpoch, ok2 := IntValue(v, "trainer.max_epoch")
				freq, ok3 := IntValue(v, "trainer.save_frequency")
				if !ok1 || !ok2 || !ok3 || freq < 1 {
					return nil
				}
				if ckpt > maxEpoch {
					return fmt.Errorf("checkpoint %d is after max_epoch %d", ckpt, maxEpoch)
				}
				if ckpt%freq != 0 {
					return fmt.Errorf("checkpoint %d is never saved with save_frequency %d", ckpt, freq)
				}
				return nil
			},
		},
		{
			Name:     "checkpoint-overwritten",
			Paths:    []string{"tester.checkpoint", "trainer.save_all"},
			Severity: SeverityWarning,
			Check: func(v Values) error {
				ckpt, ok1 := IntValue(v, "tester.checkpoint")
				maxEpoch, ok2 := IntValue(v, "trainer.max_epoch")
				freq, ok3 := IntValue(v, "trainer.save_frequency")
				if !ok1 || !ok2 || !ok3 || freq < 1 {
					return nil
				}
				if saveAll, _ := BoolValue(v, "trainer.save_all"); saveAll {
					return nil
				}
				if mode, ok := v.Get("tester.mode"); ok && mode == "all" {
					return nil
				}
				last := maxEpoch / freq * freq
				if ckpt < last {
					return fmt.Errorf("checkpoint %d is overwritten by epoch %d without save_all", ckpt, last)
				}
				return nil
			},
		},
		{
			Name:     "decay-within-training",
			Paths:    []string{"lr_scheduler.decay_list", "trainer.max_epoch"},
			Severity: SeverityWarning,
			Check: func(v Values) error {
				steps, ok1 := IntSeqValue(v, "lr_scheduler.decay_list")
				maxEpoch, ok2 := IntValue(v, "trainer.max_epoch")
				if !ok1 || !ok2 {
					return nil
				}
				for _, s := range steps {
					if s > maxEpoch {
						return fmt.Errorf("decay epoch %d is after max_epoch %d and never applies", s, maxEpoch)
					}
				}
				return nil
			},
		},
		{
			Name:     "denoising-copies",
			Paths:    []string{"model.use_dn", "trainer.use_dn"},
			Severity: SeverityWarning,
			Check: func(v Values) error {
				for _, key := range []string{"use_dn", "scalar", "label_noise_scale", "box_noise_scale", "num_patterns"} {
					m, ok1 := v.Get("model." + key)
					t, ok2 := v.Get("trainer." + key)
					if !ok1 || !ok2 {
						continue
					}
					if fmt.Sprint(m) != fmt.Sprint(t) {
						return fmt.Errorf("model.%s (%v) and trainer.%s (%v) differ; the model copy is used", key, m, key, t)
					}
				}
				return nil
			},
		},
	}
}
