// counters: fixed-size operation counter tables shared between the
// master's aggregation path and the worker's reporting path.

package common

// OpType is one of the four workload operation classes.
type OpType int

const (
	OpRead OpType = iota
	OpWrite
	OpQuery
	OpScan
	NumOpTypes
)

func (t OpType) String() string {
	switch t {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpQuery:
		return "query"
	case OpScan:
		return "scan"
	default:
		return "unknown"
	}
}

// Metric is a per-operation outcome class.
type Metric int

const (
	MetricCount Metric = iota
	MetricTimeouts
	MetricErrors
	NumMetrics
)

// CounterTable accumulates operation outcomes per [OpType x Metric].
// The zero value is an empty table ready for use.
type CounterTable [NumOpTypes][NumMetrics]int64

func (t *CounterTable) Add(op OpType, m Metric, delta int64) {
	t[op][m] += delta
}

func (t CounterTable) Get(op OpType, m Metric) int64 {
	return t[op][m]
}

// Fold adds every cell of other into t. Folding is a plain per-cell
// sum, so any arrival order of per-worker tables yields the same
// result.
func (t *CounterTable) Fold(other CounterTable) {
	for op := OpType(0); op < NumOpTypes; op++ {
		for m := Metric(0); m < NumMetrics; m++ {
			t[op][m] += other[op][m]
		}
	}
}

func (t *CounterTable) Reset() {
	*t = CounterTable{}
}

// Row returns the (count, timeouts, errors) triple for one operation.
func (t *CounterTable) Row(op OpType) [NumMetrics]int64 {
	return t[op]
}

// Total sums the given metric across all operation types.
func (t *CounterTable) Total(m Metric) int64 {
	var sum int64
	for op := OpType(0); op < NumOpTypes; op++ {
		sum += t[op][m]
	}
	return sum
}
