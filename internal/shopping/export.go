package shopping

import (
	"context"
	"fmt"
	"time"

	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/planner"
	"github.com/google/uuid"
)

// Exporter stores rendered lists in a blob store and hands out links.
type Exporter struct {
	store      blob.Store
	printer    *Printer
	presignTTL int
	now        func() time.Time
}

// NewExporter creates an exporter. presignTTL is the lifetime of returned
// links in seconds.
func NewExporter(store blob.Store, printer *Printer, presignTTL int) *Exporter {
	return &Exporter{
		store:      store,
		printer:    printer,
		presignTTL: presignTTL,
		now:        time.Now,
	}
}

// Export renders the list, uploads it and returns a download link.
func (e *Exporter) Export(ctx context.Context, format string, list mealplan.ShoppingList, plan planner.PlanView) (ExportResponse, error) {
	data, err := e.printer.Render(format, list, plan)
	if err != nil {
		return ExportResponse{}, err
	}

	key := fmt.Sprintf("shopping-lists/%s/%s.%s", e.now().UTC().Format("2006-01-02"), uuid.NewString(), format)
	size, err := e.store.PutObject(ctx, key, data, ContentType(format))
	if err != nil {
		return ExportResponse{}, fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := e.store.PresignGet(ctx, key, e.presignTTL)
	if err != nil {
		return ExportResponse{}, fmt.Errorf("failed to presign export: %w", err)
	}

	return ExportResponse{
		Key:              key,
		URL:              url,
		Format:           format,
		SizeBytes:        size,
		ExpiresInSeconds: e.presignTTL,
	}, nil
}

// Download returns a previously exported object.
func (e *Exporter) Download(ctx context.Context, key string) ([]byte, error) {
	return e.store.GetObject(ctx, key)
}
