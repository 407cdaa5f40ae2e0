package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productscience/monorange/runconfig/schema"
)

func TestExtendEnumReachesLinkedKey(t *testing.T) {
	r := schema.Default()

	values := schema.MapValues{"tester.type": "NuScenes"}
	d, ok := r.DomainOf(schema.TesterTypeKey)
	require.True(t, ok)
	require.Error(t, d.Check(values["tester.type"]))

	require.NoError(t, r.ExtendEnum(schema.DatasetTypeKey, "NuScenes"))
	require.NoError(t, d.Check("NuScenes"))

	datasetDomain, _ := r.DomainOf(schema.DatasetTypeKey)
	require.NoError(t, datasetDomain.Check("NuScenes"))
}

func TestExtendEnumRejectsNonEnum(t *testing.T) {
	r := schema.Default()
	require.Error(t, r.ExtendEnum("model.hidden_dim", "big"))
	require.Error(t, r.ExtendEnum("model.no_such_key", "x"))
}

func TestPatternCoversNewLossCoefficients(t *testing.T) {
	r := schema.Default()
	_, ok := r.DomainOf("model.set_cost_range")
	require.True(t, ok)
	_, ok = r.DomainOf("model.depth_weight")
	require.False(t, ok)

	d, ok := r.DomainOf("model.depth_loss_coef")
	require.True(t, ok)
	require.Error(t, d.Check(-1))
	require.NoError(t, d.Check(0.5))
}

func TestDenoisingGroupRegisteredTwice(t *testing.T) {
	r := schema.Default()
	require.Equal(t, []string{"model", "trainer"}, r.GroupSections(schema.DenoisingGroup))
	for _, section := range []string{"model", "trainer"} {
		f, ok := r.Lookup(section + ".label_noise_scale")
		require.True(t, ok)
		require.Equal(t, 0.2, f.Default)
	}
}

func TestLinksAndSections(t *testing.T) {
	r := schema.Default()
	require.Equal(t, []schema.Link{{Path: "tester.type", Source: "dataset.type"}}, r.Links())
	require.Equal(t,
		[]string{"dataset", "lr_scheduler", "model", "optimizer", "tester", "trainer"},
		r.Sections())
}

func TestRegisterWithoutDomainPanics(t *testing.T) {
	r := schema.New()
	require.Panics(t, func() { r.Register(schema.Field{Path: "dataset.type"}) })
}

func TestCheckCollectsEveryViolation(t *testing.T) {
	r := schema.New()
	r.Register(
		schema.Field{Path: "model.hidden_dim", Domain: schema.AtLeast(1)},
		schema.Field{Path: "model.nheads", Domain: schema.AtLeast(1)},
		schema.Field{Path: "model.dropout", Domain: schema.Probability(), Default: 0.1},
		schema.Field{Path: "dataset.random_flip", Domain: schema.Probability()},
	)
	values := schema.MapValues{
		"model.hidden_dim":    0,
		"model.nheads":        "eight",
		"dataset.random_flip": 1.5,
		"model.extra":         true,
	}
	report := r.Check(values, []string{"model.hidden_dim", "model.nheads", "dataset.random_flip", "model.extra"})

	require.False(t, report.OK())
	paths := make([]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		paths = append(paths, v.Path)
	}
	assert.ElementsMatch(t, []string{"model.hidden_dim", "model.nheads", "dataset.random_flip"}, paths)
	require.Len(t, report.Warnings, 1)
	require.Equal(t, "model.extra", report.Warnings[0].Path)
}

func TestCheckMissingSectionReportedOnce(t *testing.T) {
	r := schema.New()
	r.Register(
		schema.Field{Path: "optimizer.type", Domain: schema.NewEnum("optimizer", "adam")},
		schema.Field{Path: "optimizer.lr", Domain: schema.Positive()},
		schema.Field{Path: "model.nheads", Domain: schema.AtLeast(1)},
	)
	report := r.Check(schema.MapValues{"model.nheads": 8}, []string{"model.nheads"})
	require.Len(t, report.Violations, 1)
	require.Equal(t, "optimizer", report.Violations[0].Path)
	require.Equal(t, "missing section", report.Violations[0].Reason)
}

func TestRuleSeverity(t *testing.T) {
	r := schema.New()
	r.AddRule(schema.Rule{
		Name:     "always",
		Paths:    []string{"a.x", "a.y"},
		Expected: "never",
		Check:    func(schema.Values) error { return assert.AnError },
	})
	r.AddRule(schema.Rule{
		Name:     "advice",
		Paths:    []string{"a.z"},
		Severity: schema.SeverityWarning,
		Check:    func(schema.Values) error { return assert.AnError },
	})
	report := r.Check(schema.MapValues{}, nil)
	require.Len(t, report.Violations, 1)
	require.Equal(t, "a.x/a.y", report.Violations[0].Path)
	require.Len(t, report.Warnings, 1)
	require.Equal(t, "a.z", report.Warnings[0].Path)
}

func TestDefaultRules(t *testing.T) {
	base := schema.MapValues{
		"model.range_min":         1e-3,
		"model.range_max":         60.0,
		"model.hidden_dim":        256,
		"model.nheads":            8,
		"tester.checkpoint":       195,
		"trainer.max_epoch":       195,
		"trainer.save_frequency":  1,
		"lr_scheduler.decay_list": []any{85, 125},
		"model.use_dn":            false,
		"trainer.use_dn":          false,
	}
	rules := make(map[string]schema.Rule)
	for _, rule := range schema.Default().Rules() {
		rules[rule.Name] = rule
	}
	for name, rule := range rules {
		require.NoError(t, rule.Check(base), name)
	}

	with := func(key string, value any) schema.MapValues {
		out := schema.MapValues{}
		for k, v := range base {
			out[k] = v
		}
		out[key] = value
		return out
	}
	require.Error(t, rules["range-order"].Check(with("model.range_min", 60.0)))
	require.Error(t, rules["head-split"].Check(with("model.hidden_dim", 250)))
	require.Error(t, rules["checkpoint-saved"].Check(with("tester.checkpoint", 200)))
	require.Error(t, rules["checkpoint-saved"].Check(with("trainer.save_frequency", 10)))
	require.Error(t, rules["checkpoint-overwritten"].Check(with("tester.checkpoint", 185)))
	allMode := with("tester.checkpoint", 185)
	allMode["tester.mode"] = "all"
	require.NoError(t, rules["checkpoint-overwritten"].Check(allMode))
	require.Error(t, rules["decay-within-training"].Check(with("lr_scheduler.decay_list", []any{85, 300})))
	require.Error(t, rules["denoising-copies"].Check(with("trainer.use_dn", true)))

	// operands with the wrong type are left to the field checks
	require.NoError(t, rules["head-split"].Check(with("model.nheads", "eight")))
}
