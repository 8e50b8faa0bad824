package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geoshape/internal/adapters/geojson"
	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/pkg/geospatial"
)

const geoJSONContentType = "application/geo+json"

// InverseHandler returns the distance and bearings between two points.
func InverseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := params{c: c}
		p1, p2 := p.point("1"), p.point("2")
		if p.err != nil {
			return errBadRequest(c, p.err.Error())
		}

		sol, err := deps.Geodesic.Inverse(c.UserContext(), p1, p2)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(sol)
	}
}

// DirectHandler returns the destination reached along a bearing.
func DirectHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := params{c: c}
		origin := p.point("")
		bearing := p.float("bearing")
		distance := p.float("distance")
		if p.err != nil {
			return errBadRequest(c, p.err.Error())
		}

		sol, err := deps.Geodesic.Direct(c.UserContext(), origin, bearing, distance)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(sol)
	}
}

// OrientationHandler classifies the turn through three points.
func OrientationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := params{c: c}
		p1, p2, p3 := p.point("1"), p.point("2"), p.point("3")
		if p.err != nil {
			return errBadRequest(c, p.err.Error())
		}

		o, err := deps.Geodesic.Orientation(c.UserContext(), p1, p2, p3)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(o)
	}
}

// WedgeHandler builds a pie-slice polygon.
func WedgeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := params{c: c}
		spec := geospatial.WedgeSpec{
			Center:  p.point(""),
			Azimuth: p.float("azimuth"),
			Width:   p.float("width"),
			Radius:  p.float("radius"),
			Steps:   p.intOr("steps", deps.Shapes.Options().WedgeSteps),
			Name:    c.Query("name"),
			Headers: p.list("headers"),
			Values:  p.list("values"),
		}
		if p.err != nil {
			return errBadRequest(c, p.err.Error())
		}

		rec, err := deps.Shapes.Wedge(c.UserContext(), spec)
		if err != nil {
			return errFrom(c, err)
		}
		return respondShape(c, deps, rec)
	}
}

// CircleHandler builds a geodesic circle.
func CircleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := params{c: c}
		spec := geospatial.CircleSpec{
			Center:  p.point(""),
			Radius:  p.float("radius"),
			Steps:   p.intOr("steps", deps.Shapes.Options().CircleSteps),
			Name:    c.Query("name"),
			Headers: p.list("headers"),
			Values:  p.list("values"),
		}
		if p.err != nil {
			return errBadRequest(c, p.err.Error())
		}

		rec, err := deps.Shapes.Circle(c.UserContext(), spec)
		if err != nil {
			return errFrom(c, err)
		}
		return respondShape(c, deps, rec)
	}
}

// RingsHandler builds graduated range rings.
func RingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := params{c: c}
		spec := geospatial.RingsSpec{
			Center:       p.point(""),
			StartRadius:  p.float("start"),
			Increment:    p.float("increment"),
			Count:        p.intOr("count", 0),
			Steps:        p.intOr("steps", deps.Shapes.Options().CircleSteps),
			LabelBearing: p.floatOr("label_bearing", 0),
			Name:         c.Query("name"),
			Units:        c.Query("units"),
		}
		if p.err != nil {
			return errBadRequest(c, p.err.Error())
		}

		rec, err := deps.Shapes.Rings(c.UserContext(), spec)
		if err != nil {
			return errFrom(c, err)
		}
		return respondShape(c, deps, rec)
	}
}

// ListShapesHandler lists archived shapes, newest first.
func ListShapesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := domain.ShapeKind(c.Query("kind"))
		limit := c.QueryInt("limit", 20)

		recs, err := deps.Shapes.List(c.UserContext(), kind, limit)
		if err != nil {
			return errFrom(c, err)
		}
		if recs == nil {
			recs = []domain.ShapeRecord{}
		}
		return c.JSON(recs)
	}
}

const archiveCacheControl = "public, max-age=30"

// GetShapeHandler returns an archived shape.
func GetShapeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "shape id is required")
		}

		rec, err := deps.Shapes.Get(c.UserContext(), id)
		if err != nil {
			return errFrom(c, err)
		}
		// archived shapes can be deleted, so keep shared caches short-lived
		c.Set(fiber.HeaderCacheControl, archiveCacheControl)
		return respondShape(c, deps, rec)
	}
}

// respondShape writes the record as JSON, or as GeoJSON when format=geojson.
func respondShape(c *fiber.Ctx, deps *Dependencies, rec *domain.ShapeRecord) error {
	switch c.Query("format", "json") {
	case "json":
		return c.JSON(rec)
	case "geojson":
		data, err := deps.Shapes.Features(rec, geojson.NewBuilder())
		if err != nil {
			return errFrom(c, err)
		}
		c.Set(fiber.HeaderContentType, geoJSONContentType)
		return c.Send(data)
	default:
		return errBadRequest(c, "format must be json or geojson")
	}
}
