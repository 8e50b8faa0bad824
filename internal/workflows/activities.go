package workflows

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/core/usecases"
	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
	"github.com/samirrijal/geoshape/internal/pkg/geospatial"
)

// errTypeInvalidInput marks activity failures that retrying cannot fix.
const errTypeInvalidInput = "InvalidInput"

// RingInput asks for one ring of a set.
type RingInput struct {
	Spec  geospatial.RingsSpec
	Index int
}

// RingResult is one built ring and its label anchor.
type RingResult struct {
	Ring  geospatial.Shape
	Label geospatial.Label
}

// RingActivities holds the activity implementations for the ring set workflow.
type RingActivities struct {
	Solver geodesy.Solver
	Shapes *usecases.ShapeService
}

// CheckRingSet rejects a set that exceeds the configured limits before any
// ring is built.
func (a *RingActivities) CheckRingSet(ctx context.Context, spec geospatial.RingsSpec) error {
	if err := a.Shapes.CheckRings(spec); err != nil {
		return classify(err)
	}
	return nil
}

// BuildRing builds a single ring of the set.
func (a *RingActivities) BuildRing(ctx context.Context, in RingInput) (RingResult, error) {
	ring, label, err := geospatial.RingAt(a.Solver, in.Spec, in.Index)
	if err != nil {
		return RingResult{}, classify(err)
	}
	activity.GetLogger(ctx).Debug("ring built", "index", in.Index, "vertices", len(ring.Ring))
	return RingResult{Ring: ring, Label: label}, nil
}

// ArchiveRingSet stores the assembled set and returns it with its ID.
func (a *RingActivities) ArchiveRingSet(ctx context.Context, rec domain.ShapeRecord) (domain.ShapeRecord, error) {
	if err := a.Shapes.Archive(ctx, &rec); err != nil {
		return domain.ShapeRecord{}, classify(err)
	}
	return rec, nil
}

// AnnounceRingSet publishes the set's shape event.
func (a *RingActivities) AnnounceRingSet(ctx context.Context, rec domain.ShapeRecord) error {
	return a.Shapes.Announce(ctx, &rec)
}

// DeleteRingSet removes an archived set (saga compensation).
func (a *RingActivities) DeleteRingSet(ctx context.Context, id string) error {
	err := a.Shapes.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	activity.GetLogger(ctx).Info("ring set deleted (saga compensation)", "id", id)
	return nil
}

func classify(err error) error {
	if errors.Is(err, geodesy.ErrInvalidInput) {
		return temporal.NewNonRetryableApplicationError(err.Error(), errTypeInvalidInput, err)
	}
	return err
}
