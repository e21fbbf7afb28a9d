package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/PlyStack/internal/engine"
	"github.com/piwi3910/PlyStack/internal/export"
	"github.com/piwi3910/PlyStack/internal/model"
)

// watchProgress prints a progress line every interval until ctx is done or
// done is closed.
func watchProgress(ctx context.Context, w io.Writer, result *model.OptimizationResult, interval time.Duration, done <-chan struct{}) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			fmt.Fprintln(w, progressLine(result.Snapshot()))
		}
	}
}

func progressLine(p model.Progress) string {
	line := fmt.Sprintf("[%s] %d laminates, %d constraint evaluations", p.Strategy, p.LaminatesChecked, p.ConstraintEvaluations)
	if p.Best != nil {
		line += fmt.Sprintf(", best %s (%d plies) RF %s",
			p.Best.StackingSequence(), p.Best.NumPhysicalLayers(), export.Factor(p.MinReserveFactor))
	}
	return line
}

// printReport writes the human readable result table.
func printReport(w io.Writer, r export.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Laminate\t%s\n", r.Summary.StackingSequence)
	fmt.Fprintf(tw, "Material\t%s\n", r.Material())
	fmt.Fprintf(tw, "Plies\t%d\n", r.Summary.Plies)
	fmt.Fprintf(tw, "Thickness\t%.3f mm\n", r.Summary.Thickness)
	fmt.Fprintf(tw, "Areal mass\t%.3f kg/m2\n", r.Summary.ArealMass)
	fmt.Fprintf(tw, "Reserve factor\t%s\n", r.MinReserveFactor)
	if r.Stats != nil {
		fmt.Fprintf(tw, "Strategy\t%s\n", r.Stats.Strategy)
		fmt.Fprintf(tw, "Laminates checked\t%d\n", r.Stats.LaminatesChecked)
		fmt.Fprintf(tw, "Constraint evaluations\t%d\n", r.Stats.ConstraintEvaluations)
		fmt.Fprintf(tw, "Wall time\t%.3f s\n", r.Stats.DurationSeconds)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Margins) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REQUIREMENT\tRF\tMODE\tPLY\tSURFACE")
	for _, m := range r.Margins {
		ply := "-"
		if m.Ply >= 0 {
			ply = strconv.Itoa(m.Ply + 1)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.Calculator, m.ReserveFactor, m.Mode, ply, m.Surface)
	}
	return tw.Flush()
}

// printComparison writes one row per strategy.
func printComparison(w io.Writer, results []engine.ComparisonResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tPLIES\tRF\tLAMINATES\tEVALUATIONS\tTIME\tLAMINATE\tNOTE")
	for _, r := range results {
		stacking, note := "-", ""
		if r.Laminate != nil {
			stacking = r.Laminate.StackingSequence()
		}
		switch {
		case r.Bounds != nil && r.Bounds.Inverted:
			note = fmt.Sprintf("superlayers need more than %d layers, greedy result kept", r.Bounds.Upper)
		case r.Bounds != nil:
			note = fmt.Sprintf("bracket %d..%d layers", r.Bounds.Lower, r.Bounds.Upper)
		}
		if r.Err != nil {
			note = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
			r.Algorithm, r.Plies, export.Factor(r.MinReserveFactor), r.LaminatesChecked, r.ConstraintEvaluations,
			r.Duration.Round(time.Millisecond), stacking, note)
	}
	return tw.Flush()
}

// writeOutputs writes the requested report files.
func (o *options) writeOutputs(r export.Report) error {
	if o.jsonPath != "" {
		if err := export.ExportJSON(o.jsonPath, r); err != nil {
			return err
		}
		o.logger.Info("wrote JSON result", "path", o.jsonPath)
	}
	if o.reportPath != "" {
		if err := export.ExportPDF(o.reportPath, r); err != nil {
			return fmt.Errorf("failed to write PDF report: %w", err)
		}
		o.logger.Info("wrote PDF report", "path", o.reportPath)
	}
	if o.labelsPath != "" {
		if err := export.ExportLabels(o.labelsPath, r); err != nil {
			return fmt.Errorf("failed to write labels: %w", err)
		}
		o.logger.Info("wrote layup labels", "path", o.labelsPath)
	}
	return nil
}
