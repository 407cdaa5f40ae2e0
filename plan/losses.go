package plan

import (
	"fmt"
	"sort"

	"github.com/productscience/monorange/runconfig"
)

// intermediate decoder outputs only supervise these terms
var interLossTerms = []string{"loss_ce", "loss_bbox", "loss_center", "loss_giou"}

// LossWeights returns the weight of every loss term the set criterion reports, including
// the auxiliary decoder, encoder and intermediate copies.
func LossWeights(m runconfig.ModelConfig) map[string]float64 {
	weights := map[string]float64{
		"loss_ce":                m.ClsLossCoef,
		"loss_bbox":              m.BBoxLossCoef,
		"loss_giou":              m.GIoULossCoef,
		"loss_dim":               m.DimLossCoef,
		"loss_angle":             m.AngleLossCoef,
		"loss_range":             m.RangeLossCoef,
		"loss_center":            m.CenterLossCoef,
		"loss_range_map":         m.RangeMapLossCoef,
		"loss_region":            m.RegionLossCoef,
		"loss_cycle_consistency": m.CycleLossCoef,
	}

	if m.AuxLoss {
		aux := make(map[string]float64)
		for i := 0; i < m.DecLayers-1; i++ {
			for k, v := range weights {
				aux[fmt.Sprintf("%s_%d", k, i)] = v
			}
		}
		for k, v := range weights {
			aux[k+"_enc"] = v
		}
		for k, v := range aux {
			weights[k] = v
		}
	}

	for i := 0; i < m.DecLayers; i++ {
		for _, k := range interLossTerms {
			weights[fmt.Sprintf("%s_inter_%d", k, i)] = weights[k]
		}
	}
	return weights
}

// LossTerms returns the keys of weights in sorted order.
func LossTerms(weights map[string]float64) []string {
	terms := make([]string, 0, len(weights))
	for k := range weights {
		terms = append(terms, k)
	}
	sort.Strings(terms)
	return terms
}
