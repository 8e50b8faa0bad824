package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

// params collects query parsing errors so a handler can report the first
// one after reading every value.
type params struct {
	c   *fiber.Ctx
	err error
}

func (p *params) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

// float reads a required float.
func (p *params) float(name string) float64 {
	raw := p.c.Query(name)
	if raw == "" {
		p.fail("%s is required", name)
		return 0
	}
	return p.parse(name, raw)
}

// floatOr reads an optional float.
func (p *params) floatOr(name string, def float64) float64 {
	raw := p.c.Query(name)
	if raw == "" {
		return def
	}
	return p.parse(name, raw)
}

func (p *params) parse(name, raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail("%s must be a number", name)
		return 0
	}
	return v
}

// intOr reads an optional integer.
func (p *params) intOr(name string, def int) int {
	raw := p.c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail("%s must be an integer", name)
		return 0
	}
	return v
}

// list reads an optional comma separated list.
func (p *params) list(name string) []string {
	raw := p.c.Query(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// point reads lon<suffix>, lat<suffix> and the optional z<suffix>.
func (p *params) point(suffix string) geodesy.Point {
	return geodesy.Point{
		Lon:       p.float("lon" + suffix),
		Lat:       p.float("lat" + suffix),
		Elevation: p.floatOr("z"+suffix, 0),
	}
}
