package datagen

import (
	"github.com/rs/zerolog"
)

// ProgressReporter tracks and reports row production for one table.
type ProgressReporter struct {
	log              zerolog.Logger
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter. An interval of zero
// disables intermediate progress lines.
func NewProgressReporter(log zerolog.Logger, tableName string, totalRows, interval int64) *ProgressReporter {
	return &ProgressReporter{
		log:              log,
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update adds rows and logs if an interval boundary was crossed.
func (p *ProgressReporter) Update(rows int64) {
	oldRow := p.currentRow
	p.currentRow += rows

	if p.progressInterval <= 0 || p.totalRows <= 0 {
		return
	}
	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := float64(p.currentRow) / float64(p.totalRows) * 100
		p.log.Debug().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Progress")
	}
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	p.log.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table complete")
}
