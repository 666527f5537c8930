package httpapi

import (
	"context"
	"sync/atomic"

	"sitescout-engine/internal/events"
	"sitescout-engine/internal/store"
)

type Deps struct {
	DB *store.DB

	Hub *events.Hub

	// CfgVal stores config.Config; handlers always read the latest snapshot.
	CfgVal      *atomic.Value
	UserCfgPath string

	// RunAnalysis drives one job through the pipeline (inject for testability).
	RunAnalysis func(ctx context.Context, jobID string) error
}
