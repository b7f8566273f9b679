package master_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eyeKill/KVBench/common"
	"github.com/eyeKill/KVBench/master"
)

func benchConfig() *common.RunConfig {
	return &common.RunConfig{
		Processes:  4,
		Operations: 1000,
		Reads:      7,
		Writes:     3,
		KeyRange:   common.KeyRange{Min: 0, Max: 100000},
		Namespace:  "test",
		Set:        "demo",
		Bin:        common.BinSpec{Name: "b", Kind: "integer"},
	}
}

func TestBuildReadWriteJob(t *testing.T) {
	ast := assert.New(t)
	cfg := benchConfig()
	a := master.NewAssigner(cfg)
	kind, job := a.Build(master.Role{Kind: master.RoleReadWrite}, 1)
	ast.Equal(common.MsgRun, kind)
	ast.Equal(700, job.Rops)
	ast.Equal(300, job.Wops)
	ast.Equal(cfg.KeyRange, job.KeyRange)
	ast.Equal("test", job.Namespace)
	ast.Nil(job.Filter)
	ast.Nil(job.Scan)

	// the split is computed once, every iteration carries the same counts
	_, again := a.Build(master.Role{Kind: master.RoleReadWrite}, 2)
	ast.Equal(job, again)
}

func TestBuildQueryJob(t *testing.T) {
	ast := assert.New(t)
	cfg := benchConfig()
	cfg.Queries = []common.QuerySpec{
		{Type: common.QueryRange, Bin: "b", Min: 10, Max: 20},
		{Type: common.QueryEqual, Bin: "b", Value: "x"},
		{Type: "geo", Bin: "b"},
	}
	a := master.NewAssigner(cfg)

	kind, job := a.Build(master.Role{Kind: master.RoleQuery, Index: 0}, 1)
	ast.Equal(common.MsgQuery, kind)
	ast.Equal(&common.Filter{Kind: common.QueryRange, Bin: "b", Min: 10, Max: 20}, job.Filter)

	_, job = a.Build(master.Role{Kind: master.RoleQuery, Index: 1}, 1)
	ast.Equal(&common.Filter{Kind: common.QueryEqual, Bin: "b", Value: "x"}, job.Filter)

	// unrecognized query types degrade to an unfiltered statement
	_, job = a.Build(master.Role{Kind: master.RoleQuery, Index: 2}, 1)
	ast.Nil(job.Filter)
}

func TestBuildScanJob(t *testing.T) {
	ast := assert.New(t)
	cfg := benchConfig()
	cfg.Scans = []common.ScanSpec{{Percent: 50}}
	a := master.NewAssigner(cfg)
	kind, job := a.Build(master.Role{Kind: master.RoleScan, Index: 0}, 1)
	ast.Equal(common.MsgQuery, kind)
	ast.Equal(&common.ScanSpec{Percent: 50}, job.Scan)
	ast.Nil(job.Filter)
}
