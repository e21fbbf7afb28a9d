package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PlyStack/internal/engine"
	"github.com/piwi3910/PlyStack/internal/export"
	"github.com/piwi3910/PlyStack/internal/model"
)

func newOptimizeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search for the thinnest laminate that satisfies every requirement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runOptimize(cmd)
		},
	}
	addProblemFlags(cmd, o)
	addOutputFlags(cmd, o)
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "Cancel the search after this long, 0 = no limit")
	return cmd
}

// runContext returns a context cancelled on interrupt or after --timeout.
func (o *options) runContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	if o.timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func (o *options) runOptimize(cmd *cobra.Command) error {
	p, err := o.loadProblem(cmd)
	if err != nil {
		return err
	}
	strategy, err := engine.New(p.study.Settings.Algorithm)
	if err != nil {
		return err
	}

	stopMetrics := startMetricsServer(o.config.MetricsAddr, o.logger)
	defer stopMetrics()
	ctx, cancel := o.runContext(cmd.Context())
	defer cancel()

	in := p.input(o)
	done := make(chan struct{})
	go watchProgress(ctx, cmd.ErrOrStderr(), in.Result, time.Duration(o.config.ProgressSecs)*time.Second, done)

	start := time.Now()
	lam, err := strategy.Optimize(ctx, in)
	elapsed := time.Since(start)
	close(done)

	if err != nil {
		var infeasible *engine.InfeasibleError
		if errors.As(err, &infeasible) {
			fmt.Fprintf(cmd.OutOrStdout(), "No feasible laminate within %s = %d (best reserve factor %s)\n",
				infeasible.Limit, infeasible.Value, export.Factor(infeasible.BestRF))
		}
		return err
	}

	stats := export.StatsFromProgress(in.Result.Snapshot(), elapsed)
	report, err := export.BuildReport(reportTitle(p.study), lam, p.calcs, stats)
	if err != nil {
		return err
	}
	if err := printReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	return o.writeOutputs(report)
}

func reportTitle(s model.Study) string {
	if s.Name == "" || s.Name == "plystack" {
		return "Laminate report"
	}
	return s.Name
}

func newCompareCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run several strategies side by side on the same problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runCompare(cmd)
		},
	}
	addProblemFlags(cmd, o)
	cmd.Flags().StringVar(&o.strategies, "strategies", joinAlgorithms(model.Algorithms), "Strategies to compare, comma separated")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "Cancel the comparison after this long, 0 = no limit")
	return cmd
}

func (o *options) runCompare(cmd *cobra.Command) error {
	p, err := o.loadProblem(cmd)
	if err != nil {
		return err
	}
	var algorithms []model.Algorithm
	for _, name := range strings.Split(o.strategies, ",") {
		if name = strings.TrimSpace(name); name != "" {
			algorithms = append(algorithms, model.Algorithm(name))
		}
	}
	if len(algorithms) == 0 {
		return fmt.Errorf("--strategies: no strategy given")
	}

	stopMetrics := startMetricsServer(o.config.MetricsAddr, o.logger)
	defer stopMetrics()
	ctx, cancel := o.runContext(cmd.Context())
	defer cancel()

	results, err := engine.CompareStrategies(ctx, algorithms, p.input(o))
	if results != nil {
		if perr := printComparison(cmd.OutOrStdout(), results); perr != nil {
			return perr
		}
	}
	return err
}

func joinAlgorithms(algs []model.Algorithm) string {
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = string(a)
	}
	return strings.Join(names, ",")
}
