package common_test

import (
	"testing"

	"github.com/eyeKill/KVBench/common"
	"github.com/stretchr/testify/assert"
)

func TestFoldIsOrderIndependent(t *testing.T) {
	ast := assert.New(t)
	var a, b, c common.CounterTable
	a.Add(common.OpRead, common.MetricCount, 10)
	b.Add(common.OpRead, common.MetricCount, 15)
	b.Add(common.OpRead, common.MetricTimeouts, 1)
	c.Add(common.OpWrite, common.MetricErrors, 2)

	var forward, backward common.CounterTable
	for _, t := range []common.CounterTable{a, b, c} {
		forward.Fold(t)
	}
	for _, t := range []common.CounterTable{c, b, a} {
		backward.Fold(t)
	}
	ast.Equal(forward, backward)
	ast.Equal(int64(25), forward.Get(common.OpRead, common.MetricCount))
	ast.Equal(int64(1), forward.Get(common.OpRead, common.MetricTimeouts))
	ast.Equal(int64(2), forward.Get(common.OpWrite, common.MetricErrors))
}

func TestResetZeroesEveryCell(t *testing.T) {
	var table common.CounterTable
	table.Add(common.OpScan, common.MetricCount, 7)
	table.Add(common.OpQuery, common.MetricErrors, 3)
	table.Reset()
	assert.Equal(t, common.CounterTable{}, table)
}

func TestTotal(t *testing.T) {
	var table common.CounterTable
	table.Add(common.OpRead, common.MetricCount, 5)
	table.Add(common.OpWrite, common.MetricCount, 6)
	table.Add(common.OpRead, common.MetricErrors, 1)
	assert.Equal(t, int64(11), table.Total(common.MetricCount))
}
