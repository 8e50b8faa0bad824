package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/pkg/geospatial"
)

// RingSetInput is the input for the ring set workflow. Spec.Steps is taken
// literally and must be at least 1.
type RingSetInput struct {
	Spec geospatial.RingsSpec
	Name string
}

// RingSetResult summarises an archived ring set.
type RingSetResult struct {
	ShapeID  string
	Rings    int
	Vertices int
}

// RingSetWorkflow builds every ring of a set as its own activity, archives
// the assembled set, then announces it. If the announcement fails the
// archived set is deleted (saga compensation).
func RingSetWorkflow(ctx workflow.Context, input RingSetInput) (RingSetResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting ring set workflow", "count", input.Spec.Count)

	if input.Spec.Count < 1 {
		return RingSetResult{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("ring count must be at least 1, got %d", input.Spec.Count), errTypeInvalidInput, nil)
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{errTypeInvalidInput},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: enforce the ring set limits
	if err := workflow.ExecuteActivity(ctx, "CheckRingSet", input.Spec).Get(ctx, nil); err != nil {
		return RingSetResult{}, err
	}

	// Step 2: fan out one activity per ring
	futures := make([]workflow.Future, input.Spec.Count)
	for i := range futures {
		futures[i] = workflow.ExecuteActivity(ctx, "BuildRing", RingInput{Spec: input.Spec, Index: i})
	}

	name := input.Name
	if name == "" {
		name = "Rings"
	}
	rec := domain.ShapeRecord{
		Kind:   domain.KindRings,
		Name:   name,
		Center: input.Spec.Center,
		Params: map[string]any{
			"start_radius":  input.Spec.StartRadius,
			"increment":     input.Spec.Increment,
			"count":         input.Spec.Count,
			"steps":         input.Spec.Steps,
			"label_bearing": input.Spec.LabelBearing,
		},
		Shapes: make([]geospatial.Shape, len(futures)),
		Labels: make([]geospatial.Label, len(futures)),
	}
	for i, f := range futures {
		var r RingResult
		if err := f.Get(ctx, &r); err != nil {
			return RingSetResult{}, err
		}
		rec.Shapes[i] = r.Ring
		rec.Labels[i] = r.Label
	}

	// Step 3: archive
	var archived domain.ShapeRecord
	if err := workflow.ExecuteActivity(ctx, "ArchiveRingSet", rec).Get(ctx, &archived); err != nil {
		return RingSetResult{}, err
	}

	// Step 4: announce
	if err := workflow.ExecuteActivity(ctx, "AnnounceRingSet", archived).Get(ctx, nil); err != nil {
		logger.Warn("announce failed, compensating", "id", archived.ID, "error", err)
		_ = workflow.ExecuteActivity(ctx, "DeleteRingSet", archived.ID).Get(ctx, nil)
		return RingSetResult{}, err
	}

	logger.Info("Ring set archived", "id", archived.ID)
	return RingSetResult{
		ShapeID:  archived.ID,
		Rings:    len(archived.Shapes),
		Vertices: archived.VertexCount(),
	}, nil
}
