package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PlyStack/internal/export"
	"github.com/piwi3910/PlyStack/internal/model"
	"github.com/piwi3910/PlyStack/internal/project"
)

func newCheckCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a given stacking sequence against the requirements",
		Long: `Check builds the laminate given by --stack and prints the reserve factor of
every requirement. With --symmetric (the default) --stack lists the upper half.
The command fails when the minimal reserve factor is below one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runCheck(cmd)
		},
	}
	addProblemFlags(cmd, o)
	addOutputFlags(cmd, o)
	cmd.Flags().StringVar(&o.stack, "stack", "", "Ply angles outermost first, comma separated")
	cmd.Flags().BoolVar(&o.middleLayer, "middle-layer", false, "The last angle of a symmetric stack is a single ply on the mid-plane")
	_ = cmd.MarkFlagRequired("stack")
	return cmd
}

func (o *options) runCheck(cmd *cobra.Command) error {
	p, err := o.loadProblem(cmd)
	if err != nil {
		return err
	}
	angles, err := project.ParseAngles(o.stack)
	if err != nil {
		return fmt.Errorf("--stack: %w", err)
	}
	lam := buildStack(p, angles, o.middleLayer)

	report, err := export.BuildReport(reportTitle(p.study), lam, p.calcs, nil)
	if err != nil {
		return err
	}
	if err := printReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if err := o.writeOutputs(report); err != nil {
		return err
	}
	if report.MinReserveFactor < 1 {
		return fmt.Errorf("laminate %s fails: minimal reserve factor %s", report.Summary.StackingSequence, report.MinReserveFactor)
	}
	return nil
}

// buildStack creates the laminate of the given angles with the study's ply
// template. The criterion is resolved once here, so an unavailable one falls
// back to the default a single time.
func buildStack(p *problem, angles []float64, middle bool) model.Laminate {
	s := p.study.Settings
	criterion := p.reg.Resolve(s.Criterion).Name()
	lam := model.NewLaminate(s.Symmetric)
	for _, a := range angles {
		lam = lam.WithLayer(model.NewLayer(p.material, a, s.PlyThickness, criterion))
	}
	lam.MiddleLayer = s.Symmetric && middle
	return lam
}
