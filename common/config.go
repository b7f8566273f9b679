// config: validated run parameters. Parsing lives in cmd, the core
// only ever sees a RunConfig that passed Validate.

package common

import (
	"github.com/pkg/errors"
)

type QueryType string

const (
	QueryRange QueryType = "range"
	QueryEqual QueryType = "equal"
)

// QuerySpec describes one secondary-index query workload. Each spec
// gets exactly one dedicated worker.
type QuerySpec struct {
	Type  QueryType `json:"qtype" mapstructure:"qtype"`
	Bin   string    `json:"bin" mapstructure:"bin"`
	Min   int64     `json:"min" mapstructure:"min"`
	Max   int64     `json:"max" mapstructure:"max"`
	Value string    `json:"value" mapstructure:"value"`
}

// ScanSpec describes a full-namespace scan workload. All scan workers
// share the same spec.
type ScanSpec struct {
	Percent int `json:"percent" mapstructure:"percent"`
}

type KeyRange struct {
	Min int64 `json:"min" mapstructure:"min"`
	Max int64 `json:"max" mapstructure:"max"`
}

// BinSpec describes the record bin written by write transactions.
type BinSpec struct {
	Name string `json:"name" mapstructure:"name"`
	Kind string `json:"kind" mapstructure:"kind"`
	Size int    `json:"size" mapstructure:"size"`
}

// RunConfig is immutable once the run starts.
//
// Duration and Iterations are mutually exclusive: when Duration is
// set the per-worker iteration limit is disabled.
type RunConfig struct {
	Processes  int         `json:"processes" mapstructure:"processes"`
	Operations int         `json:"operations" mapstructure:"operations"`
	Reads      int         `json:"reads" mapstructure:"reads"`
	Writes     int         `json:"writes" mapstructure:"writes"`
	KeyRange   KeyRange    `json:"keyRange" mapstructure:"keyrange"`
	Namespace  string      `json:"namespace" mapstructure:"namespace"`
	Set        string      `json:"set" mapstructure:"set"`
	Bin        BinSpec     `json:"bin" mapstructure:"bin"`
	Duration   int         `json:"duration" mapstructure:"duration"`
	Iterations int         `json:"iterations" mapstructure:"iterations"`
	Queries    []QuerySpec `json:"queries" mapstructure:"queries"`
	Scans      []ScanSpec  `json:"scans" mapstructure:"scans"`
	Silent     bool        `json:"silent" mapstructure:"silent"`
	Summary    bool        `json:"summary" mapstructure:"summary"`
}

// DurationMode reports whether run termination is governed by
// wall-clock time instead of per-worker iteration counts.
func (c *RunConfig) DurationMode() bool {
	return c.Duration > 0
}

// ReadWriteWorkers returns the number of workers left for the
// read/write role after query and scan slots are filled.
func (c *RunConfig) ReadWriteWorkers() int {
	return c.Processes - len(c.Queries) - len(c.Scans)
}

// SplitOperations divides the per-dispatch operation count between
// reads and writes according to the configured ratio. Writes round
// down; any remainder goes to reads so the two always sum to
// Operations.
func (c *RunConfig) SplitOperations() (rops, wops int) {
	total := c.Reads + c.Writes
	if total == 0 {
		return c.Operations, 0
	}
	wops = c.Operations * c.Writes / total
	rops = c.Operations - wops
	return rops, wops
}

func (c *RunConfig) Validate() error {
	if c.Processes <= 0 {
		return errors.Errorf("process count must be positive, got %d", c.Processes)
	}
	if rw := c.ReadWriteWorkers(); rw < 0 {
		return errors.Errorf("%d query and %d scan workers exceed %d total processes",
			len(c.Queries), len(c.Scans), c.Processes)
	}
	if c.ReadWriteWorkers() > 0 {
		if c.Operations <= 0 {
			return errors.Errorf("operation count must be positive, got %d", c.Operations)
		}
		if c.Reads < 0 || c.Writes < 0 {
			return errors.New("read and write weights must not be negative")
		}
		if c.KeyRange.Min >= c.KeyRange.Max {
			return errors.Errorf("invalid key range [%d, %d)", c.KeyRange.Min, c.KeyRange.Max)
		}
	}
	if c.Duration < 0 || c.Iterations < 0 {
		return errors.New("duration and iteration limit must not be negative")
	}
	if c.Namespace == "" {
		return errors.New("namespace must not be empty")
	}
	return nil
}
