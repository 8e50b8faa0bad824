package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
	"github.com/samirrijal/geoshape/internal/pkg/geospatial"
)

func floatArg(p graphql.ResolveParams, name string) float64 {
	v, _ := p.Args[name].(float64)
	return v
}

func intArg(p graphql.ResolveParams, name string) int {
	v, _ := p.Args[name].(int)
	return v
}

// intArgOr returns def only when the argument was not supplied.
func intArgOr(p graphql.ResolveParams, name string, def int) int {
	v, ok := p.Args[name].(int)
	if !ok {
		return def
	}
	return v
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

func pointArg(p graphql.ResolveParams, suffix string) geodesy.Point {
	return geodesy.Point{
		Lon:       floatArg(p, "lon"+suffix),
		Lat:       floatArg(p, "lat"+suffix),
		Elevation: floatArg(p, "z"+suffix),
	}
}

func pointArgs(suffix string, args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args["lon"+suffix] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)}
	args["lat"+suffix] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)}
	args["z"+suffix] = &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0}
	return args
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Point",
		Fields: graphql.Fields{
			"lon":       &graphql.Field{Type: graphql.Float},
			"lat":       &graphql.Field{Type: graphql.Float},
			"elevation": &graphql.Field{Type: graphql.Float},
		},
	})

	inverseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "InverseSolution",
		Fields: graphql.Fields{
			"distance_m":      &graphql.Field{Type: graphql.Float},
			"initial_bearing": &graphql.Field{Type: graphql.Float},
			"final_bearing":   &graphql.Field{Type: graphql.Float},
			"iterations":      &graphql.Field{Type: graphql.Int},
			"converged":       &graphql.Field{Type: graphql.Boolean},
		},
	})

	directType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DirectSolution",
		Fields: graphql.Fields{
			"destination":   &graphql.Field{Type: pointType},
			"final_bearing": &graphql.Field{Type: graphql.Float},
			"iterations":    &graphql.Field{Type: graphql.Int},
			"converged":     &graphql.Field{Type: graphql.Boolean},
		},
	})

	orientationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Orientation",
		Fields: graphql.Fields{
			"determinant": &graphql.Field{Type: graphql.Float},
			"turn":        &graphql.Field{Type: graphql.String},
		},
	})

	attributeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Attribute",
		Fields: graphql.Fields{
			"header": &graphql.Field{Type: graphql.String},
			"value":  &graphql.Field{Type: graphql.String},
		},
	})

	shapeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Shape",
		Fields: graphql.Fields{
			"name":       &graphql.Field{Type: graphql.String},
			"ring":       &graphql.Field{Type: graphql.NewList(pointType)},
			"attributes": &graphql.Field{Type: graphql.NewList(attributeType)},
		},
	})

	labelType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Label",
		Fields: graphql.Fields{
			"name":  &graphql.Field{Type: graphql.String},
			"point": &graphql.Field{Type: pointType},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	recordType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ShapeRecord",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.String},
			"kind": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(p.Source.(*domain.ShapeRecord).Kind), nil
				},
			},
			"name":   &graphql.Field{Type: graphql.String},
			"center": &graphql.Field{Type: pointType},
			"shapes": &graphql.Field{Type: graphql.NewList(shapeType)},
			"labels": &graphql.Field{Type: graphql.NewList(labelType)},
			"bounds": &graphql.Field{Type: boundsType},
			"vertex_count": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.ShapeRecord).VertexCount(), nil
				},
			},
			"created_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.ShapeRecord).CreatedAt.Format(time.RFC3339), nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"inverse": &graphql.Field{
				Type:        inverseType,
				Description: "Distance and bearings between two points",
				Args:        pointArgs("1", pointArgs("2", graphql.FieldConfigArgument{})),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geodesic.Inverse(p.Context, pointArg(p, "1"), pointArg(p, "2"))
				},
			},
			"direct": &graphql.Field{
				Type:        directType,
				Description: "Destination reached along a bearing",
				Args: pointArgs("", graphql.FieldConfigArgument{
					"bearing":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"distance": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geodesic.Direct(p.Context, pointArg(p, ""), floatArg(p, "bearing"), floatArg(p, "distance"))
				},
			},
			"orientation": &graphql.Field{
				Type:        orientationType,
				Description: "Turn direction through three points",
				Args:        pointArgs("1", pointArgs("2", pointArgs("3", graphql.FieldConfigArgument{}))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geodesic.Orientation(p.Context, pointArg(p, "1"), pointArg(p, "2"), pointArg(p, "3"))
				},
			},
			"wedge": &graphql.Field{
				Type:        recordType,
				Description: "Pie-slice polygon",
				Args: pointArgs("", graphql.FieldConfigArgument{
					"azimuth": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"width":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"steps":   &graphql.ArgumentConfig{Type: graphql.Int},
					"name":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Shapes.Wedge(p.Context, geospatial.WedgeSpec{
						Center:  pointArg(p, ""),
						Azimuth: floatArg(p, "azimuth"),
						Width:   floatArg(p, "width"),
						Radius:  floatArg(p, "radius"),
						Steps:   intArgOr(p, "steps", deps.Shapes.Options().WedgeSteps),
						Name:    stringArg(p, "name"),
					})
				},
			},
			"circle": &graphql.Field{
				Type:        recordType,
				Description: "Geodesic circle",
				Args: pointArgs("", graphql.FieldConfigArgument{
					"radius": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"steps":  &graphql.ArgumentConfig{Type: graphql.Int},
					"name":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Shapes.Circle(p.Context, geospatial.CircleSpec{
						Center: pointArg(p, ""),
						Radius: floatArg(p, "radius"),
						Steps:  intArgOr(p, "steps", deps.Shapes.Options().CircleSteps),
						Name:   stringArg(p, "name"),
					})
				},
			},
			"rings": &graphql.Field{
				Type:        recordType,
				Description: "Graduated range rings with labels",
				Args: pointArgs("", graphql.FieldConfigArgument{
					"start":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"increment":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"count":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"steps":         &graphql.ArgumentConfig{Type: graphql.Int},
					"label_bearing": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"name":          &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"units":         &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Shapes.Rings(p.Context, geospatial.RingsSpec{
						Center:       pointArg(p, ""),
						StartRadius:  floatArg(p, "start"),
						Increment:    floatArg(p, "increment"),
						Count:        intArg(p, "count"),
						Steps:        intArgOr(p, "steps", deps.Shapes.Options().CircleSteps),
						LabelBearing: floatArg(p, "label_bearing"),
						Name:         stringArg(p, "name"),
						Units:        stringArg(p, "units"),
					})
				},
			},
			"shape": &graphql.Field{
				Type:        recordType,
				Description: "Archived shape by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Shapes.Get(p.Context, stringArg(p, "id"))
				},
			},
			"shapes": &graphql.Field{
				Type:        graphql.NewList(recordType),
				Description: "Recently archived shapes",
				Args: graphql.FieldConfigArgument{
					"kind":  &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					recs, err := deps.Shapes.List(p.Context, domain.ShapeKind(stringArg(p, "kind")), intArg(p, "limit"))
					if err != nil {
						return nil, err
					}
					out := make([]*domain.ShapeRecord, len(recs))
					for i := range recs {
						out[i] = &recs[i]
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
