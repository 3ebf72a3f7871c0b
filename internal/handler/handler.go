package handler

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/auth"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/config"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/mailer"
)

// Repository 是 handler 用到的查询层操作，*repository.Repository 实现了该接口
type Repository interface {
	Ping(ctx context.Context) error
	CreateUser(ctx context.Context, user *domain.User, profile *domain.Profile) error
	UpdatePassword(ctx context.Context, email string, passwordHash string) (*domain.User, error)
	GetProfile(ctx context.Context, pNo string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, pNo string, patch domain.ProfilePatch) (*domain.Profile, error)
	ListFlights(ctx context.Context, filter domain.FlightFilter) ([]*domain.FlightRecord, error)
	GetFlight(ctx context.Context, crewID string, flightID int64) (*domain.FlightRecord, error)
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository Repository
	verifier   *auth.Verifier
	tokens     *auth.TokenIssuer
	translator ut.Translator
	mailer     mailer.Publisher

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, verifier *auth.Verifier, tokens *auth.TokenIssuer, publisher mailer.Publisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// 校验错误信息中使用 json 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		verifier:   verifier,
		tokens:     tokens,
		translator: trans,
		mailer:     publisher,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	h.Mux.Use(middleware.Timeout(time.Duration(h.config.Server.RequestTimeout) * time.Second))

	h.Mux.Get("/healthz", h.HealthCheck)

	// 账号相关
	h.Mux.Route("/user", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/forget", h.ForgetPassword)

		// 以下 API 需要通过临时密钥或令牌认证
		r.Route("/{cid}/profile", func(r chi.Router) {
			r.Use(h.crewAuth)
			r.Get("/", h.GetProfile)
			r.Patch("/", h.UpdateProfile)
		})
	})

	// 航班相关
	// 所有机组的航班，请求者通过 cid 查询参数标识自己
	h.Mux.With(h.crewAuth).Get("/flight/get_flights", h.GetAllFlights)
	h.Mux.Route("/flight/{cid}", func(r chi.Router) {
		r.Use(h.crewAuth)
		r.Get("/get_flights", h.GetFlights)
		r.Get("/get_flights/{fid}", h.GetFlight)
	})
}
