// README: Transit provider backed by Postgres tables (subway_line_status, bus_routes).
package transit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"routebee/internal/modules/location"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) LineStatus(ctx context.Context) ([]LineStatus, error) {
	rows, err := s.db.Query(ctx, `
		SELECT line_id, status, delay_minutes, crowd_level
		FROM subway_line_status
		ORDER BY line_id`)
	if err != nil {
		return nil, fmt.Errorf("query line status: %w", err)
	}
	statuses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (LineStatus, error) {
		var ls LineStatus
		var status, crowd string
		if err := row.Scan(&ls.Line, &status, &ls.DelayMin, &crowd); err != nil {
			return LineStatus{}, err
		}
		ls.Status = Status(status)
		ls.Crowd = Crowd(crowd)
		return ls, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan line status: %w", err)
	}
	return statuses, nil
}

func (s *Store) BusRoutes(ctx context.Context, area location.Area) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT route_id
		FROM bus_routes
		WHERE area = $1
		ORDER BY rank, route_id`, string(area))
	if err != nil {
		return nil, fmt.Errorf("query bus routes: %w", err)
	}
	routes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan bus routes: %w", err)
	}
	return routes, nil
}
