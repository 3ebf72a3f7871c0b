package domain

import "time"

// FlightRecord 是 roster -> route -> route detail -> schedule 四张表联查的结果，不单独存储
type FlightRecord struct {
	RouteNo    string    `json:"route_no"`
	DepDate    time.Time `json:"f_dep_date"`
	DepStation string    `json:"f_dep_station"`
	DepPort    string    `json:"dep_port"`
	ArrPort    string    `json:"arr_port"`
	DepTime    string    `json:"dep_time"`
	ArrTime    string    `json:"arr_time"`
	FlightNo   int64     `json:"flight_no"`
	ACType     string    `json:"ac_type"`
}

// DateRange 两端均包含
type DateRange struct {
	Start time.Time
	End   time.Time
}

// FlightFilter 中为 nil 的条件不参与过滤，其余条件之间为 AND 关系
type FlightFilter struct {
	CrewID    *string
	FlightID  *int64
	DateRange *DateRange
	Limit     int
}

type Route struct {
	RouteNo string
	Name    string
}

type FlightSchedule struct {
	FlightNo int64
	DepPort  string
	ArrPort  string
	DepTime  string
	ArrTime  string
	ACType   string
}

type RouteDetail struct {
	RouteNo    string
	FlightNo   int64
	DepDate    time.Time
	DepStation string
}
