package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/trace"
	"github.com/cpusim/cpusim/sim/workload"
)

var (
	// CLI flags for the workload and the scheduler
	workloadPath     string        // YAML workload file; empty runs the built-in sample
	policyName       string        // Dispatch policy name
	timeSlice        int64         // Round-robin time slice (in ticks)
	storeCapacity    int           // Program store capacity (in instruction lines)
	slotSize         int           // Program store slot size per process
	blockOnInput     bool          // Input-read instructions block the running process
	inputLatency     int64         // Ticks until blocked input becomes available
	idlePause        time.Duration // Real-time pause per idle tick
	instructionPause time.Duration // Real-time pause per executed tick

	// CLI flags for reporting
	reportInterval time.Duration // Wall-clock period of the clock reporter
	traceLevel     string        // Trace verbosity: none, dispatch, full
	traceOut       string        // File to write the trace to
	resultsPath    string        // File to write JSON results to
	logLevel       string        // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cpusim",
	Short: "Educational CPU scheduling simulator",
}

// runCmd executes the simulation using the workload file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		spec, err := loadWorkload(workloadPath)
		if err != nil {
			logrus.Fatalf("unable to load workload: %v", err)
		}
		cfg, err := resolveConfig(cmd.Flags(), spec)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, tracer, runErr := simulate(ctx, spec, cfg, os.Stdout)
		if s == nil {
			logrus.Fatalf("unable to start simulation: %v", runErr)
		}

		s.Metrics.Print(os.Stdout)
		if tracer != nil {
			reportTrace(tracer.Trace)
		}
		if resultsPath != "" {
			if err := s.Metrics.SaveResults(resultsPath); err != nil {
				logrus.Errorf("unable to save results: %v", err)
			}
		}

		if runErr != nil {
			if errors.Is(runErr, context.Canceled) {
				logrus.Warnf("%v", runErr)
				return
			}
			logrus.Fatalf("simulation failed: %v", runErr)
		}
		logrus.Info("Simulation complete.")
	},
}

// validateCmd checks a workload file and the flags without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a workload file and scheduler flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevel()
		spec, err := loadWorkload(workloadPath)
		if err != nil {
			return err
		}
		cfg, err := resolveConfig(cmd.Flags(), spec)
		if err != nil {
			return err
		}
		table, store, err := workload.Build(spec)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Workload OK: %d processes, policy %s, store %d lines in slots of %d\n",
			table.Len(), policyOrDefault(cfg.Policy), store.Capacity(), store.SlotSize())
		return nil
	},
}

// simulate builds the workload, runs the scheduler to completion or cancellation
// and stops the clock reporter before returning. The returned Scheduler is nil
// only when the run could not start.
func simulate(ctx context.Context, spec *workload.Spec, cfg sim.Config, out io.Writer) (*sim.Scheduler, *sim.TraceReporter, error) {
	table, store, err := workload.Build(spec)
	if err != nil {
		return nil, nil, err
	}

	reporters := sim.MultiReporter{sim.NewLogReporter(out)}
	var tracer *sim.TraceReporter
	if level := trace.TraceLevel(traceLevel); level != "" && level != trace.TraceLevelNone {
		tracer = sim.NewTraceReporter(level)
		reporters = append(reporters, tracer)
	}

	s, err := sim.NewScheduler(cfg, store, reporters)
	if err != nil {
		return nil, nil, err
	}
	if err := s.AddProcesses(table); err != nil {
		return nil, nil, err
	}

	clock := sim.NewClockReporter(s.Queues(), reportInterval)
	clock.Start()
	runErr := s.Run(ctx)
	clock.Stop()
	clock.Join()

	return s, tracer, runErr
}

// reportTrace logs the trace summary and writes the trace file if requested.
func reportTrace(st *trace.SimulationTrace) {
	summary := trace.Summarize(st)
	logrus.Infof("Trace: %d records, %d dispatches, %d preemptions, %d idle ticks",
		summary.TotalRecords, summary.Dispatches, summary.Preemptions, summary.IdleTicks)
	logrus.Infof("Trace: completion order %v", summary.CompletionOrder)
	if traceOut == "" {
		return
	}
	if err := writeTrace(traceOut, st); err != nil {
		logrus.Errorf("unable to write trace: %v", err)
		return
	}
	logrus.Infof("Trace written to %s", traceOut)
}

func writeTrace(path string, st *trace.SimulationTrace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := st.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func policyOrDefault(name string) string {
	if name == "" {
		return sim.PolicyRoundRobin
	}
	return name
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addSimFlags registers the workload and scheduler flags shared by run and validate.
func addSimFlags(fs *pflag.FlagSet) {
	defaults := sim.DefaultConfig()
	fs.StringVar(&workloadPath, "workload", "", "YAML workload file (default: built-in sample processes)")
	fs.StringVar(&policyName, "policy", defaults.Policy, fmt.Sprintf("Dispatch policy %v", sim.ValidPolicyNames()))
	fs.Int64Var(&timeSlice, "time-slice", defaults.TimeSlice, "Round-robin time slice (in ticks)")
	fs.IntVar(&storeCapacity, "store-capacity", sim.DefaultStoreCapacity, "Program store capacity (in instruction lines)")
	fs.IntVar(&slotSize, "slot-size", sim.DefaultSlotSize, "Maximum instruction lines per process")
	fs.BoolVar(&blockOnInput, "block-on-input", defaults.BlockOnInput, "Block processes on input-read instructions")
	fs.Int64Var(&inputLatency, "input-latency", defaults.InputLatency, "Ticks until blocked input becomes available")
	fs.StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Trace verbosity (none, dispatch, full)")
	fs.StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	addSimFlags(runCmd.Flags())
	addSimFlags(validateCmd.Flags())

	defaults := sim.DefaultConfig()
	runCmd.Flags().DurationVar(&idlePause, "idle-pause", defaults.IdlePause, "Real-time pause per idle tick (0 disables)")
	runCmd.Flags().DurationVar(&instructionPause, "instruction-pause", defaults.InstructionPause, "Real-time pause per executed tick (0 disables)")
	runCmd.Flags().DurationVar(&reportInterval, "report-interval", sim.DefaultReportInterval, "Wall-clock period of the elapsed-time report")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "File to write the trace to (requires --trace-level)")
	runCmd.Flags().StringVar(&resultsPath, "results", "", "File to write JSON results to")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
