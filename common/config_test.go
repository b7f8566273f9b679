package common_test

import (
	"testing"

	"github.com/eyeKill/KVBench/common"
	"github.com/stretchr/testify/assert"
)

func validConfig() common.RunConfig {
	return common.RunConfig{
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

func TestSplitOperations(t *testing.T) {
	ast := assert.New(t)
	cfg := validConfig()
	rops, wops := cfg.SplitOperations()
	ast.Equal(700, rops)
	ast.Equal(300, wops)

	// rounding shortfall is routed entirely into reads
	cfg.Reads, cfg.Writes = 2, 1
	rops, wops = cfg.SplitOperations()
	ast.Equal(333, wops)
	ast.Equal(667, rops)
	ast.Equal(cfg.Operations, rops+wops)

	// all reads when no write weight
	cfg.Reads, cfg.Writes = 0, 0
	rops, wops = cfg.SplitOperations()
	ast.Equal(1000, rops)
	ast.Equal(0, wops)
}

func TestWorkerPartition(t *testing.T) {
	ast := assert.New(t)
	cfg := validConfig()
	cfg.Queries = []common.QuerySpec{
		{Type: common.QueryRange, Bin: "b", Min: 0, Max: 10},
	}
	cfg.Scans = []common.ScanSpec{{Percent: 100}}
	ast.Equal(2, cfg.ReadWriteWorkers())
	ast.Equal(cfg.Processes, cfg.ReadWriteWorkers()+len(cfg.Queries)+len(cfg.Scans))
	ast.Nil(cfg.Validate())
}

func TestValidateRejectsOversubscribedWorkers(t *testing.T) {
	cfg := validConfig()
	cfg.Processes = 2
	cfg.Queries = make([]common.QuerySpec, 2)
	cfg.Scans = []common.ScanSpec{{}}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadKeyRange(t *testing.T) {
	cfg := validConfig()
	cfg.KeyRange = common.KeyRange{Min: 10, Max: 10}
	assert.Error(t, cfg.Validate())
}

func TestDurationMode(t *testing.T) {
	ast := assert.New(t)
	cfg := validConfig()
	ast.False(cfg.DurationMode())
	cfg.Duration = 30
	ast.True(cfg.DurationMode())
}
