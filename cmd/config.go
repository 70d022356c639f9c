package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/cpusim/cpusim/sim"
	"github.com/cpusim/cpusim/sim/trace"
	"github.com/cpusim/cpusim/sim/workload"
)

// loadWorkload reads the workload file at path, or returns the built-in sample
// workload when path is empty.
func loadWorkload(path string) (*workload.Spec, error) {
	if path == "" {
		return workload.SampleSpec(), nil
	}
	return workload.LoadSpec(path)
}

// resolveConfig layers the scheduler configuration: defaults, then the workload
// file, then every flag the user set explicitly. Store dimension flags are
// written back into spec so workload.Build sees them.
func resolveConfig(flags *pflag.FlagSet, spec *workload.Spec) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	spec.ApplyTo(&cfg)

	if flags.Changed("policy") {
		cfg.Policy = policyName
	}
	if flags.Changed("time-slice") {
		cfg.TimeSlice = timeSlice
	}
	if flags.Changed("idle-pause") {
		cfg.IdlePause = idlePause
	}
	if flags.Changed("instruction-pause") {
		cfg.InstructionPause = instructionPause
	}
	if flags.Changed("block-on-input") {
		cfg.BlockOnInput = blockOnInput
	}
	if flags.Changed("input-latency") {
		cfg.InputLatency = inputLatency
	}
	if flags.Changed("store-capacity") {
		capacity := storeCapacity
		spec.Store.Capacity = &capacity
	}
	if flags.Changed("slot-size") {
		slot := slotSize
		spec.Store.SlotSize = &slot
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if !trace.IsValidTraceLevel(traceLevel) {
		return cfg, fmt.Errorf("unknown trace level %q; valid: none, dispatch, full", traceLevel)
	}
	return cfg, nil
}
