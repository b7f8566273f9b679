// jobs: pure construction of job descriptions from a worker's role.

package master

import (
	"go.uber.org/zap"

	"github.com/eyeKill/KVBench/common"
)

type RoleKind int

const (
	RoleReadWrite RoleKind = iota
	RoleQuery
	RoleScan
)

func (k RoleKind) String() string {
	switch k {
	case RoleReadWrite:
		return "read-write"
	case RoleQuery:
		return "query"
	case RoleScan:
		return "scan"
	default:
		return "unknown"
	}
}

// Role is the fixed class of work assigned to a worker for its whole
// lifetime. Index points into the query or scan spec list.
type Role struct {
	Kind  RoleKind
	Index int
}

// Assigner builds job descriptions. The read/write split is computed
// once and reused for every dispatch to every read/write worker.
type Assigner struct {
	cfg  *common.RunConfig
	rops int
	wops int
	log  *zap.Logger
}

func NewAssigner(cfg *common.RunConfig) *Assigner {
	rops, wops := cfg.SplitOperations()
	return &Assigner{cfg: cfg, rops: rops, wops: wops, log: common.Log()}
}

// Build returns the message kind and job description for the given
// role's iteration-th dispatch. Jobs do not vary with the iteration
// count today; every dispatch of a role carries the same parameters.
func (a *Assigner) Build(role Role, iteration int) (common.MsgKind, common.Job) {
	job := common.Job{
		Namespace: a.cfg.Namespace,
		Set:       a.cfg.Set,
	}
	switch role.Kind {
	case RoleQuery:
		spec := a.cfg.Queries[role.Index]
		job.Filter = buildFilter(spec)
		if job.Filter == nil {
			// unrecognized query types degrade to an unfiltered
			// statement rather than failing the run
			a.log.Warn("Unrecognized query type, statement will run unfiltered.",
				zap.String("qtype", string(spec.Type)))
		}
		return common.MsgQuery, job
	case RoleScan:
		spec := a.cfg.Scans[role.Index]
		job.Scan = &spec
		return common.MsgQuery, job
	default:
		job.KeyRange = a.cfg.KeyRange
		job.Rops = a.rops
		job.Wops = a.wops
		job.Bin = a.cfg.Bin
		return common.MsgRun, job
	}
}

func buildFilter(spec common.QuerySpec) *common.Filter {
	switch spec.Type {
	case common.QueryRange:
		return &common.Filter{Kind: common.QueryRange, Bin: spec.Bin, Min: spec.Min, Max: spec.Max}
	case common.QueryEqual:
		return &common.Filter{Kind: common.QueryEqual, Bin: spec.Bin, Value: spec.Value}
	default:
		return nil
	}
}
