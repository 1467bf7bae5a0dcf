package session

import "sync/atomic"

// Metrics contains atomic counters of a session.
// Counters can be used as the value of a prometheus CounterFunc.
type Metrics struct {
	// WriteCount indicates the number of lines written.
	WriteCount atomic.Uint64
	// ReadCount indicates the number of lines read.
	ReadCount atomic.Uint64
	// IOErrCount indicates the number of failed transport operations.
	IOErrCount atomic.Uint64
	// StatusReadCount indicates the number of status bytes sampled.
	StatusReadCount atomic.Uint64
	// DrainCount indicates the number of error queue drains that produced errors.
	DrainCount atomic.Uint64
	// DeviceErrorCount indicates the number of device errors drained.
	DeviceErrorCount atomic.Uint64
	// PollTimeoutCount indicates the number of status waits that timed out.
	PollTimeoutCount atomic.Uint64
	// DiscardCount indicates the number of unread lines discarded.
	DiscardCount atomic.Uint64
}

func (m *Metrics) incWriteCount() {
	m.WriteCount.Add(1)
}

func (m *Metrics) incReadCount() {
	m.ReadCount.Add(1)
}

func (m *Metrics) incIOErrCount() {
	m.IOErrCount.Add(1)
}

func (m *Metrics) incStatusReadCount() {
	m.StatusReadCount.Add(1)
}

func (m *Metrics) incDrainCount() {
	m.DrainCount.Add(1)
}

func (m *Metrics) addDeviceErrorCount(n int) {
	m.DeviceErrorCount.Add(uint64(n)) //nolint:gosec
}

func (m *Metrics) incPollTimeoutCount() {
	m.PollTimeoutCount.Add(1)
}

func (m *Metrics) incDiscardCount() {
	m.DiscardCount.Add(1)
}
