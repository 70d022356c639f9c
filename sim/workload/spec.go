// Package workload loads process tables for the scheduler: YAML specs, program
// loading into the program store, and the built-in sample programs.
package workload

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cpusim/cpusim/sim"
)

// Spec is the top-level workload configuration.
// Loaded from YAML via LoadSpec(path). Nil pointer fields mean "not set in YAML"
// and leave the corresponding default or CLI value in place.
type Spec struct {
	Version   string        `yaml:"version"`
	Scheduler SchedulerSpec `yaml:"scheduler"`
	Store     StoreSpec     `yaml:"store"`
	Processes []ProcessSpec `yaml:"processes"`
}

// SchedulerSpec selects the dispatch policy and its parameters.
type SchedulerSpec struct {
	Policy       string `yaml:"policy"`
	TimeSlice    *int64 `yaml:"time_slice"`
	BlockOnInput *bool  `yaml:"block_on_input"`
	InputLatency *int64 `yaml:"input_latency"`
}

// StoreSpec sizes the program store.
type StoreSpec struct {
	Capacity *int `yaml:"capacity"`
	SlotSize *int `yaml:"slot_size"`
}

// ProcessSpec describes one process and its program.
type ProcessSpec struct {
	PID      int64    `yaml:"pid"` // 0 = allocate the next free pid
	Priority int      `yaml:"priority"`
	Arrival  int64    `yaml:"arrival"`
	RunTime  *int64   `yaml:"run_time"` // defaults to the program length
	Parent   *int64   `yaml:"parent,omitempty"`
	Program  []string `yaml:"program"`
}

// TotalRunTime returns the configured run time, or the program length when unset.
func (ps ProcessSpec) TotalRunTime() int64 {
	if ps.RunTime != nil {
		return *ps.RunTime
	}
	return int64(len(ps.Program))
}

// LoadSpec reads and parses a YAML workload file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	return ParseSpec(data)
}

// ParseSpec parses YAML workload data with strict field checking.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// Validate checks policy names, parameter ranges and parent references.
func (s *Spec) Validate() error {
	if !sim.IsValidPolicy(s.Scheduler.Policy) {
		return fmt.Errorf("%w %q; valid: %v", sim.ErrInvalidPolicy, s.Scheduler.Policy, sim.ValidPolicyNames())
	}
	if s.Scheduler.TimeSlice != nil && *s.Scheduler.TimeSlice <= 0 {
		return fmt.Errorf("time_slice must be positive, got %d", *s.Scheduler.TimeSlice)
	}
	if s.Scheduler.InputLatency != nil && *s.Scheduler.InputLatency < 0 {
		return fmt.Errorf("input_latency must be non-negative, got %d", *s.Scheduler.InputLatency)
	}
	if s.Store.Capacity != nil && *s.Store.Capacity <= 0 {
		return fmt.Errorf("store capacity must be positive, got %d", *s.Store.Capacity)
	}
	if s.Store.SlotSize != nil && *s.Store.SlotSize <= 0 {
		return fmt.Errorf("store slot_size must be positive, got %d", *s.Store.SlotSize)
	}
	if len(s.Processes) == 0 {
		return fmt.Errorf("at least one process required")
	}

	pids := make(map[int64]bool, len(s.Processes))
	for i, p := range s.Processes {
		prefix := fmt.Sprintf("process[%d]", i)
		if p.PID < 0 {
			return fmt.Errorf("%s: pid must be non-negative, got %d", prefix, p.PID)
		}
		if p.PID > 0 {
			if pids[p.PID] {
				return fmt.Errorf("%s: %w: %d", prefix, sim.ErrDuplicatePID, p.PID)
			}
			pids[p.PID] = true
		}
		if p.Priority < 0 {
			return fmt.Errorf("%s: priority must be non-negative, got %d", prefix, p.Priority)
		}
		if p.Arrival < 0 {
			return fmt.Errorf("%s: arrival must be non-negative, got %d", prefix, p.Arrival)
		}
		if p.TotalRunTime() < 0 {
			return fmt.Errorf("%s: run_time must be non-negative, got %d", prefix, p.TotalRunTime())
		}
	}
	for i, p := range s.Processes {
		if p.Parent != nil && !pids[*p.Parent] {
			return fmt.Errorf("process[%d]: parent %d is not an explicit pid of this workload", i, *p.Parent)
		}
	}
	return nil
}

// ApplyTo copies the scheduler settings present in the spec onto cfg.
func (s *Spec) ApplyTo(cfg *sim.Config) {
	if s.Scheduler.Policy != "" {
		cfg.Policy = s.Scheduler.Policy
	}
	if s.Scheduler.TimeSlice != nil {
		cfg.TimeSlice = *s.Scheduler.TimeSlice
	}
	if s.Scheduler.BlockOnInput != nil {
		cfg.BlockOnInput = *s.Scheduler.BlockOnInput
	}
	if s.Scheduler.InputLatency != nil {
		cfg.InputLatency = *s.Scheduler.InputLatency
	}
}

// StoreDimensions returns the program store capacity and slot size, falling back to the defaults.
func (s *Spec) StoreDimensions() (capacity, slotSize int) {
	capacity, slotSize = sim.DefaultStoreCapacity, sim.DefaultSlotSize
	if s.Store.Capacity != nil {
		capacity = *s.Store.Capacity
	}
	if s.Store.SlotSize != nil {
		slotSize = *s.Store.SlotSize
	}
	return capacity, slotSize
}
