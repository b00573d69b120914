package service

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Timings records the wall time of each pipeline stage. The first measurement
// of a stage is kept.
type Timings struct {
	order  []string
	stages map[string]time.Duration
}

func NewTimings() *Timings {
	return &Timings{stages: make(map[string]time.Duration)}
}

// Track runs fn and records its duration under stage.
func (t *Timings) Track(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	t.record(stage, time.Since(start))
	return err
}

func (t *Timings) record(stage string, d time.Duration) {
	if _, ok := t.stages[stage]; ok {
		return
	}
	t.stages[stage] = d
	t.order = append(t.order, stage)
}

func (t *Timings) Get(stage string) (time.Duration, bool) {
	d, ok := t.stages[stage]
	return d, ok
}

func (t *Timings) Stages() []string {
	return t.order
}

func (t *Timings) Log() {
	fields := log.Fields{}
	for _, stage := range t.order {
		fields[stage] = t.stages[stage].Round(time.Microsecond).String()
	}
	log.WithFields(fields).Info("⏱️ Stage timings")
}
