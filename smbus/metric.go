package smbus

import "sync/atomic"

// BusMetrics contains atomic metrics for a Bus.
// Metrics can be used as the value of a prometheus CounterFunc.
type BusMetrics struct {
	// TransactionCount indicates the number of transactions attempted.
	TransactionCount atomic.Uint64
	// ErrorCount indicates the number of failed transactions, checksum failures included.
	ErrorCount atomic.Uint64
	// ChecksumErrorCount indicates the number of PEC mismatches.
	ChecksumErrorCount atomic.Uint64
	// TruncatedBlockCount indicates the number of blocks clamped to 32 bytes.
	TruncatedBlockCount atomic.Uint64
}

func (m *BusMetrics) incTransactionCount() {
	m.TransactionCount.Add(1)
}

func (m *BusMetrics) incErrorCount() {
	m.ErrorCount.Add(1)
}

func (m *BusMetrics) incChecksumErrorCount() {
	m.ChecksumErrorCount.Add(1)
}

func (m *BusMetrics) incTruncatedBlockCount() {
	m.TruncatedBlockCount.Add(1)
}
