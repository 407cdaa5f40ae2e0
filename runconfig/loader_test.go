package runconfig_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productscience/monorange/runconfig"
	"github.com/productscience/monorange/runconfig/schema"
)

const repositoryConfig = "testdata/monorange_kitti.yaml"

func readRepositoryConfig(t *testing.T) []byte {
	data, err := os.ReadFile(repositoryConfig)
	require.NoError(t, err)
	return data
}

func loadAndValidate(t *testing.T, data []byte, opts ...runconfig.Option) (*runconfig.Validated, error) {
	opts = append([]runconfig.Option{runconfig.WithoutEnv()}, opts...)
	doc, err := runconfig.LoadBytes("test.yaml", data, opts...)
	require.NoError(t, err)
	reg := schema.Default()
	if err := runconfig.ResolveAliases(doc, reg); err != nil {
		return nil, err
	}
	return runconfig.Validate(doc, reg)
}

func TestRepositoryConfigValidates(t *testing.T) {
	doc, err := runconfig.Load(repositoryConfig, runconfig.WithoutEnv())
	require.NoError(t, err)
	reg := schema.Default()

	require.NoError(t, runconfig.ResolveAliases(doc, reg))
	validated, err := runconfig.Validate(doc, reg)
	require.NoError(t, err)
	require.Empty(t, validated.Warnings)

	cfg := validated.Config
	require.Equal(t, 444, cfg.RandomSeed)
	require.Equal(t, "monorange", cfg.ModelName)
	require.Equal(t, "KITTI", cfg.Dataset.Type)
	require.Equal(t, "KITTI", cfg.Tester.Type)
	require.Equal(t, []string{"Car"}, cfg.Dataset.Writelist)
	require.Equal(t, 16, cfg.Dataset.BatchSize)
	require.True(t, cfg.Dataset.AugPD)
	require.Equal(t, "image_2", cfg.Dataset.ImageDir)
	require.False(t, cfg.Dataset.AugCalib)

	require.Equal(t, 256, cfg.Model.HiddenDim)
	require.Equal(t, 8, cfg.Model.NHeads)
	require.Equal(t, 0.001, cfg.Model.RangeMin)
	require.Equal(t, 60.0, cfg.Model.RangeMax)
	require.Equal(t, 10.0, cfg.Model.CenterLossCoef)
	require.Equal(t, 11, cfg.Model.GroupNum)
	require.Equal(t, 5, cfg.Model.Scalar)
	require.Equal(t, 0.4, cfg.Model.BoxNoiseScale)
	require.Equal(t, cfg.Model.DenoisingConfig, cfg.Trainer.DenoisingConfig)
	require.Nil(t, cfg.Model.ExtraLossCoefs)

	require.Equal(t, 0.0002, cfg.Optimizer.LR)
	require.Equal(t, []int{85, 125}, cfg.LRScheduler.DecayList)
	require.Equal(t, "0", cfg.Trainer.GPUIDs)
	require.Empty(t, cfg.Trainer.ResumeModel)
	require.Equal(t, 195, cfg.Tester.Checkpoint)
}

func TestDocumentTracksAnchorsAndPositions(t *testing.T) {
	doc, err := runconfig.LoadBytes("inline.yaml", []byte("dataset:\n  type: &t KITTI\ntester:\n  type: *t\n"), runconfig.WithoutEnv())
	require.NoError(t, err)

	src, ok := doc.AliasOf("tester.type")
	require.True(t, ok)
	require.Equal(t, "dataset.type", src)
	require.Equal(t, map[string]string{"t": "dataset.type"}, doc.Anchors())

	pos, ok := doc.Position("tester.type")
	require.True(t, ok)
	require.Equal(t, runconfig.Position{Line: 4, Column: 3}, pos)

	v, ok := doc.Get("tester.type")
	require.True(t, ok)
	require.Equal(t, "KITTI", v)

	section, ok := doc.Section("dataset")
	require.True(t, ok)
	require.Equal(t, map[string]any{"type": "KITTI"}, section)
	_, ok = doc.Section("model")
	require.False(t, ok)
}

func TestHiddenDimNotDivisibleByHeads(t *testing.T) {
	_, err := loadAndValidate(t, readRepositoryConfig(t), runconfig.WithOverrides("model.hidden_dim=250"))
	require.Error(t, err)
	require.True(t, errors.Is(err, runconfig.ErrSchema))

	var schemaErr *runconfig.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Len(t, schemaErr.Violations, 1)
	require.True(t, schemaErr.Has("model.hidden_dim"))
	require.True(t, schemaErr.Has("model.nheads"))
	require.Contains(t, err.Error(), "test.yaml:")
}

func TestSchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		override string
		path     string
		expected string
	}{
		{name: "probability", override: "dataset.random_flip=1.5", path: "dataset.random_flip", expected: "probability in [0, 1]"},
		{name: "range order", override: "model.range_min=60", path: "model.range_min/model.range_max", expected: "range_min < range_max"},
		{name: "decay list", override: "lr_scheduler.decay_list=[85, 85, 125]", path: "lr_scheduler.decay_list", expected: "strictly increasing sequence of integer >= 0"},
		{name: "checkpoint", override: "tester.checkpoint=200", path: "tester.checkpoint/trainer.max_epoch/trainer.save_frequency"},
		{name: "writelist class", override: "dataset.writelist=[Tram]", path: "dataset.writelist"},
		{name: "negative coefficient", override: "model.giou_loss_coef=-2", path: "model.giou_loss_coef", expected: "number >= 0"},
		{name: "gpu ids", override: "trainer.gpu_ids=0,0", path: "trainer.gpu_ids"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadAndValidate(t, readRepositoryConfig(t), runconfig.WithOverrides(tt.override))
			var schemaErr *runconfig.SchemaError
			require.True(t, errors.As(err, &schemaErr), "got %v", err)
			require.Len(t, schemaErr.Violations, 1, schemaErr.Error())
			require.Equal(t, tt.path, schemaErr.Violations[0].Path)
			if tt.expected != "" {
				require.Equal(t, tt.expected, schemaErr.Violations[0].Expected)
			}
		})
	}
}

func TestEveryViolationReported(t *testing.T) {
	_, err := loadAndValidate(t, readRepositoryConfig(t),
		runconfig.WithOverrides("model.hidden_dim=250", "dataset.random_flip=1.5", "optimizer.type=lamb"))
	var schemaErr *runconfig.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Len(t, schemaErr.Violations, 3)
}

func TestMissingSection(t *testing.T) {
	data := bytes.Replace(readRepositoryConfig(t), []byte("optimizer:"), []byte("optimiser:"), 1)
	_, err := loadAndValidate(t, data)
	var schemaErr *runconfig.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.True(t, schemaErr.Has("optimizer"))
}

func TestAliasMismatch(t *testing.T) {
	data := bytes.Replace(readRepositoryConfig(t), []byte("type: *dataset_type"), []byte("type: 'NuScenes'"), 1)
	doc, err := runconfig.LoadBytes("test.yaml", data, runconfig.WithoutEnv())
	require.NoError(t, err)

	err = runconfig.ResolveAliases(doc, schema.Default())
	require.Error(t, err)
	require.True(t, errors.Is(err, runconfig.ErrAliasMismatch))

	var mismatch *runconfig.AliasMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, []runconfig.AliasMismatch{{
		Path:        "tester.type",
		Source:      "dataset.type",
		Value:       "NuScenes",
		SourceValue: "KITTI",
	}}, mismatch.Mismatches)
}

func TestAliasMismatchOnScalarType(t *testing.T) {
	data := bytes.Replace(readRepositoryConfig(t), []byte("type: &dataset_type 'KITTI'"), []byte("type: &dataset_type 1"), 1)
	data = bytes.Replace(data, []byte("type: *dataset_type"), []byte("type: '1'"), 1)
	doc, err := runconfig.LoadBytes("test.yaml", data, runconfig.WithoutEnv())
	require.NoError(t, err)

	var mismatch *runconfig.AliasMismatchError
	require.True(t, errors.As(runconfig.ResolveAliases(doc, schema.Default()), &mismatch))
	require.Equal(t, []runconfig.AliasMismatch{{
		Path:        "tester.type",
		Source:      "dataset.type",
		Value:       "1",
		SourceValue: 1,
	}}, mismatch.Mismatches)
}

func TestLiteralAliasAccepted(t *testing.T) {
	data := bytes.Replace(readRepositoryConfig(t), []byte("type: *dataset_type"), []byte("type: 'KITTI'"), 1)
	_, err := loadAndValidate(t, data)
	require.NoError(t, err)
}

func TestOverrideFollowsAlias(t *testing.T) {
	reg := schema.Default()
	require.NoError(t, reg.ExtendEnum(schema.DatasetTypeKey, "NuScenes"))

	doc, err := runconfig.LoadBytes("test.yaml", readRepositoryConfig(t),
		runconfig.WithoutEnv(), runconfig.WithOverrides("dataset.type=NuScenes"))
	require.NoError(t, err)

	v, _ := doc.Get("tester.type")
	require.Equal(t, "NuScenes", v)
	origin, ok := doc.Overridden("tester.type")
	require.True(t, ok)
	require.Equal(t, "flag", origin)

	require.NoError(t, runconfig.ResolveAliases(doc, reg))
	validated, err := runconfig.Validate(doc, reg)
	require.NoError(t, err)
	require.Equal(t, "NuScenes", validated.Config.Tester.Type)
}

func TestOverriddenAliasKeepsOwnValue(t *testing.T) {
	doc, err := runconfig.LoadBytes("test.yaml", readRepositoryConfig(t),
		runconfig.WithoutEnv(), runconfig.WithOverrides("dataset.type=NuScenes", "tester.type=KITTI"))
	require.NoError(t, err)

	v, _ := doc.Get("tester.type")
	require.Equal(t, "KITTI", v)
	require.Error(t, runconfig.ResolveAliases(doc, schema.Default()))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MONORANGE_MODEL__HIDDEN_DIM", "128")
	t.Setenv("MONORANGE_TRAINER__SAVE_ALL", "true")
	t.Setenv(runconfig.ConfigPathEnv, "elsewhere.yaml")

	doc, err := runconfig.Load(repositoryConfig)
	require.NoError(t, err)

	v, _ := doc.Get("model.hidden_dim")
	require.Equal(t, 128, v)
	origin, _ := doc.Overridden("model.hidden_dim")
	require.Equal(t, "env", origin)
	_, ok := doc.Get("config_path")
	require.False(t, ok)

	validated, err := runconfig.Validate(doc, schema.Default())
	require.NoError(t, err)
	require.Equal(t, 128, validated.Config.Model.HiddenDim)
	require.True(t, validated.Config.Trainer.SaveAll)
}

func TestEnvPrefixAndFlagPrecedence(t *testing.T) {
	t.Setenv("MR_TRAINER__GPU_IDS", "0,1")
	t.Setenv("MR_MODEL__NHEADS", "4")

	doc, err := runconfig.LoadBytes("test.yaml", readRepositoryConfig(t),
		runconfig.WithEnvPrefix("MR_"), runconfig.WithOverrides("model.nheads=16"))
	require.NoError(t, err)

	validated, err := runconfig.Validate(doc, schema.Default())
	require.NoError(t, err)
	require.Equal(t, "0,1", validated.Config.Trainer.GPUIDs)
	require.Equal(t, 16, validated.Config.Model.NHeads)
}

func TestUnknownKeysWarn(t *testing.T) {
	validated, err := loadAndValidate(t, readRepositoryConfig(t),
		runconfig.WithOverrides("model.new_flag=true", "model.depth_loss_coef=0.5"))
	require.NoError(t, err)
	require.Equal(t, []schema.Warning{{Path: "model.new_flag", Message: "unknown key, ignored"}}, validated.Warnings)
	require.Equal(t, map[string]float64{"depth_loss_coef": 0.5}, validated.Config.Model.ExtraLossCoefs)
}

func TestDenoisingCopiesMayDiverge(t *testing.T) {
	validated, err := loadAndValidate(t, readRepositoryConfig(t), runconfig.WithOverrides("trainer.use_dn=true"))
	require.NoError(t, err)
	require.Len(t, validated.Warnings, 1)
	assert.Contains(t, validated.Warnings[0].Message, "the model copy is used")
	require.False(t, validated.Config.Model.UseDN)
	require.True(t, validated.Config.Trainer.UseDN)
}

func TestParseOverride(t *testing.T) {
	key, value, err := runconfig.ParseOverride("lr_scheduler.decay_list=[90, 120]")
	require.NoError(t, err)
	require.Equal(t, "lr_scheduler.decay_list", key)
	require.Equal(t, []any{90, 120}, value)

	_, value, err = runconfig.ParseOverride("trainer.save_path=")
	require.NoError(t, err)
	require.Equal(t, "", value)

	_, _, err = runconfig.ParseOverride("no-equals-sign")
	require.Error(t, err)
	_, _, err = runconfig.ParseOverride("=1")
	require.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	_, err := runconfig.Load("testdata/missing.yaml")
	require.True(t, errors.Is(err, runconfig.ErrPath))
	var pathErr *runconfig.PathError
	require.True(t, errors.As(err, &pathErr))
	require.Equal(t, "testdata/missing.yaml", pathErr.Path)

	tests := map[string]string{
		"syntax":     "dataset: [unclosed\n",
		"not a map":  "- a\n- b\n",
		"empty":      "",
		"duplicates": "dataset:\n  type: KITTI\n  type: KITTI\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runconfig.LoadBytes(name, []byte(body), runconfig.WithoutEnv())
			require.True(t, errors.Is(err, runconfig.ErrParse), "got %v", err)
			var parseErr *runconfig.ParseError
			require.True(t, errors.As(err, &parseErr))
			require.Equal(t, name, parseErr.Source)
		})
	}
}

func TestMarshalIsIdempotent(t *testing.T) {
	doc, err := runconfig.Load(repositoryConfig, runconfig.WithoutEnv())
	require.NoError(t, err)
	first, err := doc.Marshal()
	require.NoError(t, err)

	doc2, err := runconfig.LoadBytes("marshalled.yaml", first, runconfig.WithoutEnv())
	require.NoError(t, err)
	second, err := doc2.Marshal()
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))

	reg := schema.Default()
	v1, err := runconfig.Validate(doc, reg)
	require.NoError(t, err)
	v2, err := runconfig.Validate(doc2, reg)
	require.NoError(t, err)
	require.Equal(t, v1.Config, v2.Config)
}
