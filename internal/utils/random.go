package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/auth"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

var firstNames = []string{
	"James", "Mary", "John", "Linda", "Robert", "Susan", "Michael", "Karen", "David", "Nancy",
	"Daniel", "Lisa", "Paul", "Sandra", "Mark", "Emily", "Kevin", "Laura", "Brian", "Anna",
}

var lastNames = []string{
	"Smith", "Johnson", "Brown", "Taylor", "Miller", "Wilson", "Moore", "Clark", "Lewis", "Walker",
	"Hall", "Allen", "Young", "King", "Wright", "Scott", "Green", "Baker", "Adams", "Nelson",
}

var bases = []string{"JFK", "LAX", "ORD", "ATL", "DFW", "SFO", "SEA", "MIA"}

var aircraftTypes = []string{"A320", "A321", "B737", "B738", "B77W", "A359"}

func GenerateRandomName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

// GenerateRandomCrewID 生成形如 E12345 的工号
func GenerateRandomCrewID() string {
	return fmt.Sprintf("E%05d", rand.Intn(100000))
}

// GenerateRandomUser 生成一个机组成员及其资料，资料中的姓名和基地已填好，其余字段与注册时一致
func GenerateRandomUser(password string, emailDomainName string) (*domain.User, *domain.Profile, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	name := GenerateRandomName()
	id := GenerateRandomCrewID()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "." + strings.ToLower(id) + "@" + emailDomainName
	now := time.Now()

	user := &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
	}

	profile := domain.NewProfileStub(id, email, now)
	base := bases[rand.Intn(len(bases))]
	profile.Name = &name
	profile.Base = &base

	return user, profile, nil
}

// GenerateRandomRoute 生成一条从 start 当天开始、每天一段的航线，相邻航段首尾机场相接
func GenerateRandomRoute(start time.Time, legs int) (*domain.Route, []*domain.FlightSchedule, []*domain.RouteDetail) {
	routeNo := fmt.Sprintf("R%06d", rand.Intn(1000000))
	route := &domain.Route{
		RouteNo: routeNo,
		Name:    fmt.Sprintf("Pairing %s", routeNo),
	}

	schedules := make([]*domain.FlightSchedule, 0, legs)
	details := make([]*domain.RouteDetail, 0, legs)

	// 同一航线内航班号连续，避免互相冲突
	flightBase := int64(100+rand.Intn(900)) * 10
	from := bases[rand.Intn(len(bases))]
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < legs; i++ {
		to := bases[rand.Intn(len(bases))]
		for to == from {
			to = bases[rand.Intn(len(bases))]
		}

		depHour := 6 + rand.Intn(14)
		duration := 1 + rand.Intn(5)
		fs := &domain.FlightSchedule{
			FlightNo: flightBase + int64(i),
			DepPort:  from,
			ArrPort:  to,
			DepTime:  fmt.Sprintf("%02d:%02d:00", depHour, rand.Intn(4)*15),
			ArrTime:  fmt.Sprintf("%02d:%02d:00", (depHour+duration)%24, rand.Intn(4)*15),
			ACType:   aircraftTypes[rand.Intn(len(aircraftTypes))],
		}
		schedules = append(schedules, fs)

		details = append(details, &domain.RouteDetail{
			RouteNo:    routeNo,
			FlightNo:   fs.FlightNo,
			DepDate:    day.AddDate(0, 0, i),
			DepStation: from,
		})

		from = to
	}

	return route, schedules, details
}
