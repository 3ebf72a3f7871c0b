package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

// ListFlights 通过 排班 -> 航线 -> 航线明细 -> 航班计划 四张表内连接查询航班。
// 任何一环缺失的记录都不会出现在结果中，这是有意为之的过滤。
func (r *Repository) ListFlights(ctx context.Context, filter domain.FlightFilter) ([]*domain.FlightRecord, error) {
	query := `
		SELECT DISTINCT cc_roster.cc_route_no, cc_route_details.f_dep_date, cc_route_details.f_dep_station,
			flightschedule.dep_port, flightschedule.arr_port, flightschedule.dep_time, flightschedule.arr_time,
			flightschedule.flight_no, flightschedule.ac_type
		FROM cc_roster
		INNER JOIN cc_routes ON cc_roster.cc_route_no = cc_routes.cc_route_no
		INNER JOIN cc_route_details ON cc_routes.cc_route_no = cc_route_details.cc_route_no
		INNER JOIN flightschedule ON cc_route_details.flight_no = flightschedule.flight_no
	`

	// 条件中只有占位符编号是动态的，列名全部固定
	conds := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if filter.CrewID != nil {
		args = append(args, *filter.CrewID)
		conds = append(conds, fmt.Sprintf("cc_roster.p_no = $%d", len(args)))
	}
	if filter.FlightID != nil {
		args = append(args, *filter.FlightID)
		conds = append(conds, fmt.Sprintf("flightschedule.flight_no = $%d", len(args)))
	}
	if filter.DateRange != nil {
		args = append(args, filter.DateRange.Start, filter.DateRange.End)
		conds = append(conds, fmt.Sprintf("cc_route_details.f_dep_date BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY cc_route_details.f_dep_date, flightschedule.dep_time, flightschedule.flight_no"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]*domain.FlightRecord, 0)
	for rows.Next() {
		f := &domain.FlightRecord{}
		dst := []any{&f.RouteNo, &f.DepDate, &f.DepStation, &f.DepPort, &f.ArrPort, &f.DepTime, &f.ArrTime, &f.FlightNo, &f.ACType}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return flights, nil
}

// GetFlight 返回某个机组成员的某个航班，没有完整的排班链时返回 domain.ErrNotFound
func (r *Repository) GetFlight(ctx context.Context, crewID string, flightID int64) (*domain.FlightRecord, error) {
	flights, err := r.ListFlights(ctx, domain.FlightFilter{
		CrewID:   &crewID,
		FlightID: &flightID,
		Limit:    1,
	})
	if err != nil {
		return nil, err
	}

	if len(flights) == 0 {
		return nil, domain.ErrNotFound
	}

	return flights[0], nil
}

func (r *Repository) CreateRoute(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO cc_routes (cc_route_no, name)
		VALUES ($1, $2)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, r.rebind(query), route.RouteNo, route.Name); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) CreateFlightSchedule(ctx context.Context, fs *domain.FlightSchedule) error {
	query := `
		INSERT INTO flightschedule (flight_no, dep_port, arr_port, dep_time, arr_time, ac_type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{fs.FlightNo, fs.DepPort, fs.ArrPort, fs.DepTime, fs.ArrTime, fs.ACType}
	if _, err := r.dbpool.ExecContext(ctx, r.rebind(query), args...); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) CreateRouteDetail(ctx context.Context, rd *domain.RouteDetail) error {
	query := `
		INSERT INTO cc_route_details (cc_route_no, flight_no, f_dep_date, f_dep_station)
		VALUES ($1, $2, $3, $4)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{rd.RouteNo, rd.FlightNo, rd.DepDate, rd.DepStation}
	if _, err := r.dbpool.ExecContext(ctx, r.rebind(query), args...); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) AssignRoster(ctx context.Context, crewID string, routeNo string) error {
	query := `
		INSERT INTO cc_roster (p_no, cc_route_no)
		VALUES ($1, $2)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, r.rebind(query), crewID, routeNo); err != nil {
		return translateError(err)
	}

	return nil
}
