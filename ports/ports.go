// Package ports declares the boundary interfaces between the estimation
// core and its collaborators (dataset sources, persistence).
package ports

import (
	"context"

	"godiv/app"
	"godiv/domain/core"
)

// DatasetReader loads named abundance vectors from an external source
// (spreadsheet, file, ...). Keys are sample labels; non-positive counts are
// filtered by the domain layer.
type DatasetReader interface {
	ReadAbundance(ctx context.Context) (map[string][]int, error)
}

// FitStore persists diversity reports for later retrieval.
type FitStore interface {
	SaveReport(ctx context.Context, report *app.Report) error
	GetReport(ctx context.Context, id core.FitID) (*app.Report, error)
	ListReports(ctx context.Context, limit int) ([]*app.Report, error)
}
