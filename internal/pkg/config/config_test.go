package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("geoshape-test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "geoshape-test", cfg.Telemetry.ServiceName)
	assert.Equal(t, 15, cfg.Shapes.WedgeSteps)
	assert.Equal(t, geodesy.DefaultPrecision, cfg.Geodesy.Precision)

	s, err := cfg.Geodesy.Solver()
	require.NoError(t, err)
	assert.Equal(t, geodesy.Default, s)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GEOSHAPE_GEODESY_PRECISION", "6")
	t.Setenv("GEOSHAPE_SHAPES_CIRCLE_STEPS", "72")

	cfg, err := Load("geoshape-test")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Geodesy.Precision)
	assert.Equal(t, 72, cfg.Shapes.CircleSteps)
}

func TestValidate(t *testing.T) {
	t.Setenv("GEOSHAPE_GEODESY_FLATTENING", "1.5")
	t.Setenv("GEOSHAPE_SHAPES_WEDGE_STEPS", "1")

	_, err := Load("geoshape-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geodesy.flattening")
	assert.Contains(t, err.Error(), "shapes.wedge_steps")
}

func TestSphereSolver(t *testing.T) {
	g := GeodesyConfig{EquatorialRadius: 6371000, Precision: 2, MaxIterations: 10, Tolerance: 1e-9}
	s, err := g.Solver()
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Ellipsoid.Flattening())
	assert.Equal(t, 2, s.Precision)
}
