package telemetry

// Span attribute keys shared by the use cases.
const (
	AttrShapeKind  = "geoshape.shape.kind"
	AttrShapeID    = "geoshape.shape.id"
	AttrIterations = "geoshape.geodesy.iterations"
	AttrConverged  = "geoshape.geodesy.converged"
	AttrCacheHit   = "geoshape.cache.hit"
)
