package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

type fakeWriter struct {
	routes    map[string]*domain.Route
	schedules map[int64]*domain.FlightSchedule
	details   []*domain.RouteDetail
	rosters   map[string][]string
	err       error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		routes:    map[string]*domain.Route{},
		schedules: map[int64]*domain.FlightSchedule{},
		rosters:   map[string][]string{},
	}
}

func (f *fakeWriter) CreateRoute(_ context.Context, route *domain.Route) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.routes[route.RouteNo]; ok {
		return domain.ErrConflict
	}
	f.routes[route.RouteNo] = route
	return nil
}

func (f *fakeWriter) CreateFlightSchedule(_ context.Context, fs *domain.FlightSchedule) error {
	if _, ok := f.schedules[fs.FlightNo]; ok {
		return domain.ErrConflict
	}
	f.schedules[fs.FlightNo] = fs
	return nil
}

func (f *fakeWriter) CreateRouteDetail(_ context.Context, rd *domain.RouteDetail) error {
	f.details = append(f.details, rd)
	return nil
}

func (f *fakeWriter) AssignRoster(_ context.Context, crewID string, routeNo string) error {
	f.rosters[crewID] = append(f.rosters[crewID], routeNo)
	return nil
}

const flightsCSV = `route_no,route_name,flight_no,dep_date,dep_station,dep_port,arr_port,dep_time,arr_time,ac_type,p_no
R1,Pairing 1,100,2024-03-01,JFK,JFK,LAX,08:00:00,11:30:00,A320,E1;E2
R1,Pairing 1,101,2024-03-02,LAX,LAX,JFK,09:00:00,17:00:00,A320,E1
R2,Pairing 2,100,2024-03-08,JFK,JFK,LAX,08:00:00,11:30:00,A320,E3
R2,Pairing 2,oops,2024-03-09,LAX,LAX,JFK,09:00:00,17:00:00,A320,E3
R2,Pairing 2,102,03/09/2024,LAX,LAX,JFK,09:00:00,17:00:00,A320,E3
`

func TestImportFlights(t *testing.T) {
	w := newFakeWriter()
	// R1 已经存在
	w.routes["R1"] = &domain.Route{RouteNo: "R1"}

	result, err := ImportFlights(context.Background(), w, strings.NewReader(flightsCSV))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Routes)
	assert.Equal(t, 2, result.Schedules)
	assert.Equal(t, 3, result.Details)
	assert.Equal(t, 3, result.Rosters)
	assert.Equal(t, 2, result.Skipped)

	assert.Equal(t, []string{"R1"}, w.rosters["E1"])
	assert.Equal(t, []string{"R1"}, w.rosters["E2"])
	assert.Equal(t, []string{"R2"}, w.rosters["E3"])
	assert.Equal(t, "2024-03-08", w.details[2].DepDate.Format("2006-01-02"))
}

func TestImportFlights_MissingColumn(t *testing.T) {
	_, err := ImportFlights(context.Background(), newFakeWriter(), strings.NewReader("route_no,flight_no\nR1,100\n"))
	assert.ErrorContains(t, err, "route_name")
}

func TestImportFlights_WriterError(t *testing.T) {
	w := newFakeWriter()
	boom := errors.New("db down")
	w.err = boom

	_, err := ImportFlights(context.Background(), w, strings.NewReader(flightsCSV))
	assert.ErrorIs(t, err, boom)
}

func TestInsertChain(t *testing.T) {
	w := newFakeWriter()
	chain := RandomChain{
		Route:     &domain.Route{RouteNo: "R9"},
		Schedules: []*domain.FlightSchedule{{FlightNo: 900}, {FlightNo: 901}},
		Details:   []*domain.RouteDetail{{RouteNo: "R9", FlightNo: 900}, {RouteNo: "R9", FlightNo: 901}},
	}

	require.NoError(t, InsertChain(context.Background(), w, chain, []string{"E1", "E2"}))
	// 重复写入时主键冲突被忽略
	require.NoError(t, InsertChain(context.Background(), w, chain, nil))

	assert.Len(t, w.schedules, 2)
	assert.Equal(t, []string{"R9"}, w.rosters["E2"])
}
