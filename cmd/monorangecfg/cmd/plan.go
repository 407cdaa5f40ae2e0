package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/productscience/monorange/plan"
)

func PlanCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "plan [path]",
		Short: "Print the settings derived from a run config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := mustLoad(cmd, args)
			if err != nil {
				return err
			}
			p, err := plan.Build(o.validated.Config)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			renderPlan(cmd, p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func renderPlan(cmd *cobra.Command, p *plan.Plan) {
	s := newReportStyles(cmd.OutOrStdout())
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", s.title.Render("classes:"), strings.Join(p.Classes, ", "))
	for _, c := range p.Classes {
		if id, ok := p.ClassIDs[c]; ok {
			fmt.Fprintf(&b, "  %s label %d\n", s.key.Render(c), id)
		}
	}
	fmt.Fprintf(&b, "%s %dx%d\n", s.title.Render("feature map:"), p.FeatureSize[0], p.FeatureSize[1])
	fmt.Fprintf(&b, "%s %v\n", s.title.Render("gpus:"), p.GPUs)
	for _, l := range []plan.Layout{p.TrainLayout, p.TestLayout} {
		fmt.Fprintf(&b, "%s %s (%s), images in %s\n", s.title.Render("split "+l.Split+":"), l.SplitFile, l.DataDir, l.ImageDir)
	}

	fmt.Fprintf(&b, "%s %d terms\n", s.title.Render("loss weights:"), len(p.LossWeights))
	for _, term := range plan.LossTerms(p.LossWeights) {
		fmt.Fprintf(&b, "  %s %g\n", s.key.Render(term), p.LossWeights[term])
	}

	fmt.Fprintf(&b, "%s %s, base %g", s.title.Render("learning rate:"), p.Schedule.Type, p.Schedule.BaseLR)
	if p.Schedule.Warmup {
		fmt.Fprintf(&b, ", %d warmup epochs", plan.WarmupEpochs)
	}
	b.WriteString("\n")
	epochs := append([]int{0}, p.Schedule.DecayList...)
	for _, e := range epochs {
		if lr, err := p.Schedule.LR(e); err == nil {
			fmt.Fprintf(&b, "  epoch %d: %g\n", e, lr)
		}
	}

	fmt.Fprintf(&b, "%s %d saves", s.title.Render("checkpoints:"), len(p.Checkpoints))
	if n := len(p.Checkpoints); n > 0 {
		fmt.Fprintf(&b, ", last %s", p.Checkpoints[n-1].Path)
	}
	b.WriteString("\n")
	for _, c := range p.Evaluated {
		fmt.Fprintf(&b, "  %s epoch %d from %s\n", s.dim.Render("evaluate"), c.Epoch, c.Path)
	}
	fmt.Fprint(cmd.OutOrStdout(), b.String())
}
