package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/config"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/repository"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/seed"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/utils"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var legs int
	var crew string
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机机组成员, 2: 插入随机航线并排班, 3: 从 CSV 导入航班数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&legs, "legs", 3, "每条随机航线的航段数量 (1-10)")
	flag.StringVar(&crew, "crew", "", "随机航线排给的机组成员工号，用逗号分隔")
	flag.StringVar(&file, "file", "./internal/seed/data/flights.csv", "航班数据 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	ctx = context.Background()
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的机组成员数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			user, profile, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Seed.EmailDomain)
			if err != nil {
				slog.Error("无法生成随机机组成员", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(ctx, user, profile); err != nil {
				slog.Error("无法插入机组成员", slog.String("p_no", user.ID), slog.String("error", err.Error()))
				continue
			}

			slog.Info("已插入机组成员", slog.String("p_no", user.ID), slog.String("email", user.Email))
			cnt++
		}

		slog.Info("插入机组成员成功", slog.Int("count", cnt))
	case 2:
		if n <= 0 || legs <= 0 || legs > 10 {
			slog.Error("请输入合法的航线数量和航段数量")
			return
		}

		crewIDs := make([]string, 0)
		for _, id := range strings.Split(crew, ",") {
			if id = strings.TrimSpace(id); id != "" {
				crewIDs = append(crewIDs, id)
			}
		}

		cnt := 0
		for i := 0; i < n; i++ {
			// 每条航线从今天往后错开一周
			route, schedules, details := utils.GenerateRandomRoute(time.Now().AddDate(0, 0, 7*i), legs)
			chain := seed.RandomChain{Route: route, Schedules: schedules, Details: details}
			if err := seed.InsertChain(ctx, repo, chain, crewIDs); err != nil {
				slog.Error("无法插入航线", slog.String("route_no", route.RouteNo), slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入航线成功", slog.Int("count", cnt), slog.Int("crew", len(crewIDs)))
	case 3:
		f, err := os.Open(file)
		if err != nil {
			slog.Error("打开文件失败", "error", err)
			return
		}
		defer f.Close()

		result, err := seed.ImportFlights(ctx, repo, f)
		if err != nil {
			slog.Error("导入航班数据失败", "error", err)
			return
		}

		slog.Info("导入航班数据完成",
			slog.Int("routes", result.Routes),
			slog.Int("schedules", result.Schedules),
			slog.Int("details", result.Details),
			slog.Int("rosters", result.Rosters),
			slog.Int("skipped", result.Skipped),
		)
	default:
		slog.Error("指定的操作非法")
	}
}
