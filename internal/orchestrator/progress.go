package orchestrator

import (
	"sync/atomic"

	"github.com/OldStager01/traffic-extrema/internal/logger"
	"github.com/OldStager01/traffic-extrema/pkg/models"
)

// Progress receives one Advance per processed object between Start and Finish.
// Advance may be called from several goroutines.
type Progress interface {
	Start(total int)
	Advance(objectID models.ObjectID, outcome models.Outcome)
	Finish()
}

type NopProgress struct{}

func (NopProgress) Start(int) {}
func (NopProgress) Advance(models.ObjectID, models.Outcome) {}
func (NopProgress) Finish() {}

// LogProgress reports "n/total" for each object through the logger
type LogProgress struct {
	total atomic.Int64
	done  atomic.Int64
}

func NewLogProgress() *LogProgress {
	return &LogProgress{}
}

func (p *LogProgress) Start(total int) {
	p.total.Store(int64(total))
	p.done.Store(0)
}

func (p *LogProgress) Advance(objectID models.ObjectID, outcome models.Outcome) {
	n := p.done.Add(1)
	logger.WithObject(objectID).WithField("outcome", string(outcome)).
		Infof("Processing IDs: %d/%d", n, p.total.Load())
}

func (p *LogProgress) Finish() {
	logger.Infof("Processing IDs: done (%d/%d)", p.done.Load(), p.total.Load())
}

// Done returns how many objects have been reported since Start
func (p *LogProgress) Done() int {
	return int(p.done.Load())
}
