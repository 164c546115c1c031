package metrics

import "time"

// SaveEvent describes one persistence attempt.
type SaveEvent struct {
	FacilityID string
	Created    bool
	Outcome    string // "success" or "failure"
	Duration   time.Duration
}

// ConflictEvent describes the resolution of an unsaved-work prompt.
type ConflictEvent struct {
	Resolution string // "kept", "discarded" or "cancelled"
}

// LookupEvent describes one period lookup against the index.
type LookupEvent struct {
	Mode   string
	Result string // "hit", "miss" or "ambiguous"
}

// Sink records roster events for observability purposes.
type Sink interface {
	RecordSave(ev SaveEvent) error
	RecordConflict(ev ConflictEvent) error
	RecordLookup(ev LookupEvent) error
}

// Config defines settings for the metrics sink.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordSave(SaveEvent) error         { return nil }
func (NopSink) RecordConflict(ConflictEvent) error { return nil }
func (NopSink) RecordLookup(LookupEvent) error     { return nil }
