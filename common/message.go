// message: the controller <-> worker protocol. Messages are a closed
// set of kinds carried in one envelope, framed as newline-delimited
// JSON over the worker's stdio pipes.

package common

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigFastest

type MsgKind string

const (
	// master -> worker
	MsgRun   MsgKind = "run"   // dispatch a read/write job
	MsgQuery MsgKind = "query" // dispatch a query or scan job
	MsgTrans MsgKind = "trans" // request an immediate interval report
	MsgEnd   MsgKind = "end"   // request voluntary exit

	// worker -> master
	MsgReady    MsgKind = "ready"    // worker is online and idle
	MsgStats    MsgKind = "stats"    // completion counters for one finished job
	MsgInterval MsgKind = "interval" // response to trans
	MsgAlert    MsgKind = "alert"    // out-of-band alert event
)

// Filter narrows a query job to a range or equality predicate on one
// bin. A query job without a filter runs unfiltered.
type Filter struct {
	Kind  QueryType `json:"kind"`
	Bin   string    `json:"bin"`
	Min   int64     `json:"min,omitempty"`
	Max   int64     `json:"max,omitempty"`
	Value string    `json:"value,omitempty"`
}

// Job describes one unit of work dispatched to a worker. Read/write
// jobs use KeyRange, Rops, Wops and Bin; query jobs use Filter; scan
// jobs use Scan.
type Job struct {
	Namespace string    `json:"namespace"`
	Set       string    `json:"set"`
	KeyRange  KeyRange  `json:"keyRange"`
	Rops      int       `json:"rops"`
	Wops      int       `json:"wops"`
	Bin       BinSpec   `json:"bin"`
	Filter    *Filter   `json:"filter,omitempty"`
	Scan      *ScanSpec `json:"scan,omitempty"`
}

// Alert is an out-of-band event raised by a worker. Alerts never
// change control flow.
type Alert struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

// LatencySummary carries per-job operation latency percentiles in
// microseconds.
type LatencySummary struct {
	Count int64 `json:"count"`
	P50   int64 `json:"p50"`
	P95   int64 `json:"p95"`
	P99   int64 `json:"p99"`
	Max   int64 `json:"max"`
}

// Message is the protocol envelope. Kind decides which payload fields
// are populated.
type Message struct {
	Kind    MsgKind         `json:"kind"`
	Job     *Job            `json:"job,omitempty"`
	Stats   *CounterTable   `json:"stats,omitempty"`
	Latency *LatencySummary `json:"latency,omitempty"`
	Alert   *Alert          `json:"alert,omitempty"`
}

type MessageWriter struct {
	enc *jsoniter.Encoder
}

func NewMessageWriter(w io.Writer) *MessageWriter {
	return &MessageWriter{enc: json.NewEncoder(w)}
}

func (w *MessageWriter) Write(m Message) error {
	return w.enc.Encode(&m)
}

type MessageReader struct {
	dec *jsoniter.Decoder
}

func NewMessageReader(r io.Reader) *MessageReader {
	return &MessageReader{dec: json.NewDecoder(r)}
}

// Read returns the next message from the stream. io.EOF means the
// peer closed its end.
func (r *MessageReader) Read() (Message, error) {
	var m Message
	err := r.dec.Decode(&m)
	return m, err
}
