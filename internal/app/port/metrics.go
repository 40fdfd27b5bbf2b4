package port

import "time"

// FlowMetrics records flow outcomes. Outcome is "success" or an error kind name.
type FlowMetrics interface {
	ObserveConnect(outcome string, elapsed time.Duration)
	ObserveSync(outcome string, elapsed time.Duration)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ObserveConnect(string, time.Duration) {}
func (NopMetrics) ObserveSync(string, time.Duration)    {}
