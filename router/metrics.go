package router

import "sync/atomic"

type MetricsSnapshot struct {
	Children          int64
	MessagesSent      int64
	MessagesRecv      int64
	MessagesForwarded int64
	ResponsesDropped  int64
}

type Metrics struct {
	children          atomic.Int64
	messagesSent      atomic.Int64
	messagesRecv      atomic.Int64
	messagesForwarded atomic.Int64
	responsesDropped  atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordChild(delta int) {
	m.children.Add(int64(delta))
}

func (m *Metrics) RecordMessageSent(delta int) {
	m.messagesSent.Add(int64(delta))
}

func (m *Metrics) RecordMessageRecv(delta int) {
	m.messagesRecv.Add(int64(delta))
}

func (m *Metrics) RecordMessageForwarded(delta int) {
	m.messagesForwarded.Add(int64(delta))
}

func (m *Metrics) RecordResponseDropped(delta int) {
	m.responsesDropped.Add(int64(delta))
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Children:          m.children.Load(),
		MessagesSent:      m.messagesSent.Load(),
		MessagesRecv:      m.messagesRecv.Load(),
		MessagesForwarded: m.messagesForwarded.Load(),
		ResponsesDropped:  m.responsesDropped.Load(),
	}
}
