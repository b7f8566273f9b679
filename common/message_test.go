package common_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/eyeKill/KVBench/common"
	"github.com/stretchr/testify/assert"
)

func TestMessageStream(t *testing.T) {
	ast := assert.New(t)
	var buf bytes.Buffer
	w := common.NewMessageWriter(&buf)

	var counters common.CounterTable
	counters.Add(common.OpRead, common.MetricCount, 42)

	sent := []common.Message{
		{Kind: common.MsgReady},
		{Kind: common.MsgRun, Job: &common.Job{
			Namespace: "test", Set: "demo",
			KeyRange: common.KeyRange{Min: 0, Max: 1000},
			Rops:     70, Wops: 30,
			Bin: common.BinSpec{Name: "b", Kind: "integer"},
		}},
		{Kind: common.MsgQuery, Job: &common.Job{
			Namespace: "test",
			Filter:    &common.Filter{Kind: common.QueryRange, Bin: "b", Min: 1, Max: 9},
		}},
		{Kind: common.MsgInterval, Stats: &counters},
		{Kind: common.MsgAlert, Alert: &common.Alert{Name: "node down", Severity: "warn"}},
		{Kind: common.MsgEnd},
	}
	for _, m := range sent {
		ast.Nil(w.Write(m))
	}

	r := common.NewMessageReader(&buf)
	for _, want := range sent {
		got, err := r.Read()
		ast.Nil(err)
		ast.Equal(want, got)
	}
	_, err := r.Read()
	ast.Equal(io.EOF, err)
}
