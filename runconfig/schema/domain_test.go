package schema_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productscience/monorange/runconfig/schema"
)

func TestIntDomain(t *testing.T) {
	d := schema.AtLeast(1)
	require.NoError(t, d.Check(1))
	require.NoError(t, d.Check(16))
	require.NoError(t, d.Check(3.0))
	require.Error(t, d.Check(0))
	require.Error(t, d.Check(2.5))
	require.Error(t, d.Check(true))
	require.Error(t, d.Check("sixteen"))
	require.Equal(t, "integer >= 1", d.Describe())

	err := d.Check(uint64(math.MaxUint64))
	require.ErrorContains(t, err, "18446744073709551615")
	require.NotContains(t, err.Error(), "-1")

	between := schema.IntBetween(0, 3)
	require.NoError(t, between.Check(3))
	require.Error(t, between.Check(4))
	require.Equal(t, "integer in [0, 3]", between.Describe())
}

func TestFloatDomainBounds(t *testing.T) {
	p := schema.Probability()
	require.NoError(t, p.Check(0))
	require.NoError(t, p.Check(1.0))
	require.NoError(t, p.Check(0.5))
	err := p.Check(1.5)
	require.Error(t, err)
	require.Equal(t, "probability in [0, 1]", p.Describe())

	positive := schema.Positive()
	require.Error(t, positive.Check(0.0))
	require.NoError(t, positive.Check(1e-3))
	require.Equal(t, "number > 0", positive.Describe())

	rate := schema.FloatBetween(0, 1, true, false)
	require.Error(t, rate.Check(0))
	require.NoError(t, rate.Check(1))
	require.Equal(t, "number in (0, 1]", rate.Describe())

	dropout := schema.FloatBetween(0, 1, false, true)
	require.NoError(t, dropout.Check(0))
	require.Error(t, dropout.Check(1))

	require.Error(t, schema.NonNegative().Check(false))
}

func TestEnumDomain(t *testing.T) {
	e := schema.NewEnum("optimizer", "adam", "adamw")
	require.NoError(t, e.Check("adamw"))
	require.Error(t, e.Check("rmsprop"))
	require.Error(t, e.Check(3))

	e.Add("rmsprop", "adam")
	require.NoError(t, e.Check("rmsprop"))
	require.Equal(t, []string{"adam", "adamw", "rmsprop"}, e.Values())
	require.Equal(t, "optimizer, one of [adam, adamw, rmsprop]", e.Describe())
}

func TestBoolStringPathDomains(t *testing.T) {
	require.NoError(t, schema.Bool{}.Check(true))
	require.NoError(t, schema.Bool{}.Check("False"))
	require.Error(t, schema.Bool{}.Check("maybe"))
	require.Error(t, schema.Bool{}.Check(1))

	require.NoError(t, schema.String{}.Check(""))
	require.Error(t, schema.String{NonEmpty: true}.Check("  "))

	require.NoError(t, schema.Path{}.Check("outputs/"))
	require.Error(t, schema.Path{}.Check(""))
	require.Error(t, schema.Path{}.Check(true))
}

func TestSeqDomain(t *testing.T) {
	decay := schema.Seq{Elem: schema.AtLeast(1), Increasing: true}
	require.NoError(t, decay.Check([]any{85, 125}))
	require.NoError(t, decay.Check([]any{}))

	err := decay.Check([]any{85, 85, 125})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not increase")

	require.Error(t, decay.Check([]any{0, 10}))
	require.Error(t, decay.Check("85,125"))

	classes := schema.Seq{Elem: schema.NewEnum("class", "Car", "Pedestrian"), MinLen: 1, Unique: true}
	require.NoError(t, classes.Check([]any{"Car", "Pedestrian"}))
	require.Error(t, classes.Check([]any{}))
	require.Error(t, classes.Check([]any{"Car", "Car"}))
	require.Error(t, classes.Check([]any{"Tram"}))
	require.Equal(t, "non-empty set of class, one of [Car, Pedestrian]", classes.Describe())
}

func TestParseDeviceList(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    []int
		wantErr bool
	}{
		{name: "single", value: "0", want: []int{0}},
		{name: "several", value: "0, 1,3", want: []int{0, 1, 3}},
		{name: "bare integer", value: 2, want: []int{2}},
		{name: "duplicate", value: "0,0", wantErr: true},
		{name: "negative", value: "-1", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "not a list", value: 1.5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.ParseDeviceList(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
