package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geoshape/internal/core/domain"
)

// ShapeRepo implements ports.ShapeRepository and ports.EventRepository.
type ShapeRepo struct {
	db *DB
}

func NewShapeRepo(db *DB) *ShapeRepo {
	return &ShapeRepo{db: db}
}

const shapeColumns = `id, kind, name, center_lon, center_lat, center_z, params, shapes, labels,
	min_lat, min_lon, max_lat, max_lon, created_at`

func (r *ShapeRepo) Save(ctx context.Context, rec *domain.ShapeRecord) error {
	params, err := json.Marshal(rec.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	shapes, err := json.Marshal(rec.Shapes)
	if err != nil {
		return fmt.Errorf("marshal shapes: %w", err)
	}
	labels, err := json.Marshal(rec.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO shapes (`+shapeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, string(rec.Kind), rec.Name,
		rec.Center.Lon, rec.Center.Lat, rec.Center.Elevation,
		params, shapes, labels,
		rec.Bounds.MinLat, rec.Bounds.MinLon, rec.Bounds.MaxLat, rec.Bounds.MaxLon,
		rec.CreatedAt)
	return err
}

func (r *ShapeRepo) GetByID(ctx context.Context, id string) (*domain.ShapeRecord, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+shapeColumns+` FROM shapes WHERE id = $1`, id)
	rec, err := scanShape(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns the newest shapes first. An empty kind lists every kind.
func (r *ShapeRepo) List(ctx context.Context, kind domain.ShapeKind, limit int) ([]domain.ShapeRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+shapeColumns+`
		FROM shapes
		WHERE $1 = '' OR kind = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, string(kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ShapeRecord
	for rows.Next() {
		rec, err := scanShape(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Delete removes a shape. Deleting a missing shape is ErrNotFound.
func (r *ShapeRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM shapes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveEvent appends a shape event to the event log. Redelivered events are
// ignored.
func (r *ShapeRepo) SaveEvent(ctx context.Context, e *domain.ShapeEvent) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO shape_events (shape_id, kind, name, center_lon, center_lat, center_z,
			ring_count, vertex_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (shape_id) DO NOTHING
	`, e.ShapeID, string(e.Kind), e.Name, e.Center.Lon, e.Center.Lat, e.Center.Elevation,
		e.RingCount, e.VertexCount, e.CreatedAt)
	return err
}

func scanShape(row pgx.Row) (*domain.ShapeRecord, error) {
	var (
		rec                    domain.ShapeRecord
		kind                   string
		params, shapes, labels []byte
	)
	err := row.Scan(&rec.ID, &kind, &rec.Name,
		&rec.Center.Lon, &rec.Center.Lat, &rec.Center.Elevation,
		&params, &shapes, &labels,
		&rec.Bounds.MinLat, &rec.Bounds.MinLon, &rec.Bounds.MaxLat, &rec.Bounds.MaxLon,
		&rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Kind = domain.ShapeKind(kind)
	if err := json.Unmarshal(params, &rec.Params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	if err := json.Unmarshal(shapes, &rec.Shapes); err != nil {
		return nil, fmt.Errorf("unmarshal shapes: %w", err)
	}
	if err := json.Unmarshal(labels, &rec.Labels); err != nil {
		return nil, fmt.Errorf("unmarshal labels: %w", err)
	}
	return &rec, nil
}
