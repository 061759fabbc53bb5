package notifier

import (
	"context"

	"github.com/akyker20/pga-scraper/internal/performance"
)

// Notifier defines the interface for announcing newly stored records
type Notifier interface {
	// Notify posts one announcement per record
	Notify(ctx context.Context, perfs []*performance.Performance) error
}
