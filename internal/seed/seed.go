package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

// Writer 是导入航班数据时用到的写操作，*repository.Repository 实现了该接口
type Writer interface {
	CreateRoute(ctx context.Context, route *domain.Route) error
	CreateFlightSchedule(ctx context.Context, fs *domain.FlightSchedule) error
	CreateRouteDetail(ctx context.Context, rd *domain.RouteDetail) error
	AssignRoster(ctx context.Context, crewID string, routeNo string) error
}

// csvHeaders 是航班数据文件必须包含的列，p_no 列可选
var csvHeaders = []string{
	"route_no", "route_name", "flight_no", "dep_date", "dep_station",
	"dep_port", "arr_port", "dep_time", "arr_time", "ac_type",
}

type Result struct {
	Routes    int
	Schedules int
	Details   int
	Rosters   int
	Skipped   int
}

// ImportFlights 从 CSV 导入 航线 -> 航线明细 -> 航班计划 -> 排班 的完整链条。
// 已存在的航线和航班计划会被复用，格式错误的行会被跳过。
func ImportFlights(ctx context.Context, w Writer, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, header := range headers {
		index[strings.TrimSpace(header)] = i
	}
	for _, header := range csvHeaders {
		if _, ok := index[header]; !ok {
			return nil, fmt.Errorf("没有找到列 %s", header)
		}
	}
	_, hasRoster := index["p_no"]

	result := &Result{}
	seenRoutes := map[string]bool{}
	seenSchedules := map[int64]bool{}
	seenRosters := map[string]bool{}

	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return result, fmt.Errorf("读取文件失败: %w", err)
		}
		line++

		get := func(name string) string {
			return strings.TrimSpace(row[index[name]])
		}

		flightNo, err := strconv.ParseInt(get("flight_no"), 10, 64)
		if err != nil {
			slog.Error("航班号格式错误", "line", line, "flight_no", get("flight_no"))
			result.Skipped++
			continue
		}
		depDate, err := time.Parse(time.DateOnly, get("dep_date"))
		if err != nil {
			slog.Error("日期格式错误", "line", line, "dep_date", get("dep_date"))
			result.Skipped++
			continue
		}

		routeNo := get("route_no")
		if !seenRoutes[routeNo] {
			created, err := createIfAbsent(w.CreateRoute(ctx, &domain.Route{RouteNo: routeNo, Name: get("route_name")}))
			if err != nil {
				return result, fmt.Errorf("第 %d 行插入航线失败: %w", line, err)
			}
			if created {
				result.Routes++
			}
			seenRoutes[routeNo] = true
		}

		if !seenSchedules[flightNo] {
			created, err := createIfAbsent(w.CreateFlightSchedule(ctx, &domain.FlightSchedule{
				FlightNo: flightNo,
				DepPort:  get("dep_port"),
				ArrPort:  get("arr_port"),
				DepTime:  get("dep_time"),
				ArrTime:  get("arr_time"),
				ACType:   get("ac_type"),
			}))
			if err != nil {
				return result, fmt.Errorf("第 %d 行插入航班计划失败: %w", line, err)
			}
			if created {
				result.Schedules++
			}
			seenSchedules[flightNo] = true
		}

		created, err := createIfAbsent(w.CreateRouteDetail(ctx, &domain.RouteDetail{
			RouteNo:    routeNo,
			FlightNo:   flightNo,
			DepDate:    depDate,
			DepStation: get("dep_station"),
		}))
		if err != nil {
			return result, fmt.Errorf("第 %d 行插入航线明细失败: %w", line, err)
		}
		if created {
			result.Details++
		}

		if !hasRoster {
			continue
		}
		// 一行中可以用分号分隔多个机组成员
		for _, crewID := range strings.Split(get("p_no"), ";") {
			crewID = strings.TrimSpace(crewID)
			key := crewID + "/" + routeNo
			if crewID == "" || seenRosters[key] {
				continue
			}
			created, err := createIfAbsent(w.AssignRoster(ctx, crewID, routeNo))
			if err != nil {
				return result, fmt.Errorf("第 %d 行插入排班失败: %w", line, err)
			}
			if created {
				result.Rosters++
			}
			seenRosters[key] = true
		}
	}

	return result, nil
}

// RandomChain 是一条随机生成的航线及其所有航段
type RandomChain struct {
	Route     *domain.Route
	Schedules []*domain.FlightSchedule
	Details   []*domain.RouteDetail
}

// InsertChain 写入一条航线并把它排给 crewIDs 中的每个人
func InsertChain(ctx context.Context, w Writer, chain RandomChain, crewIDs []string) error {
	if _, err := createIfAbsent(w.CreateRoute(ctx, chain.Route)); err != nil {
		return err
	}
	for _, fs := range chain.Schedules {
		if _, err := createIfAbsent(w.CreateFlightSchedule(ctx, fs)); err != nil {
			return err
		}
	}
	for _, rd := range chain.Details {
		if _, err := createIfAbsent(w.CreateRouteDetail(ctx, rd)); err != nil {
			return err
		}
	}
	for _, crewID := range crewIDs {
		if _, err := createIfAbsent(w.AssignRoster(ctx, crewID, chain.Route.RouteNo)); err != nil {
			return err
		}
	}
	return nil
}

// createIfAbsent 把主键冲突视为已存在
func createIfAbsent(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrConflict):
		return false, nil
	default:
		return false, err
	}
}
