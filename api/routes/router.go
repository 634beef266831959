package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecosortapp/ecosort-backend/api/controllers"
	"github.com/ecosortapp/ecosort-backend/api/middleware"
	"github.com/ecosortapp/ecosort-backend/internal/accounts"
	"github.com/ecosortapp/ecosort-backend/internal/companies"
	"github.com/ecosortapp/ecosort-backend/internal/leaderboard"
	"github.com/ecosortapp/ecosort-backend/internal/profiles"
	"github.com/ecosortapp/ecosort-backend/internal/quiz"
	"github.com/ecosortapp/ecosort-backend/internal/schedules"
	"github.com/ecosortapp/ecosort-backend/internal/waste"
	"github.com/ecosortapp/ecosort-backend/pkg/config"
	"github.com/ecosortapp/ecosort-backend/pkg/logger"
	"github.com/ecosortapp/ecosort-backend/pkg/metrics"
	"github.com/ecosortapp/ecosort-backend/pkg/redis"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Accounts    accounts.Service
	Profiles    profiles.Service
	Companies   companies.Service
	Quiz        quiz.Service
	Waste       waste.Service
	Schedules   schedules.Service
	Leaderboard leaderboard.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, map[string]controllers.Pinger{
			"database": d.DB,
			"cache":    readyPinger(d.Redis),
		}))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.With(middleware.AuthRateLimit(signupPolicy, d.Redis, logg)).Post("/signup", controllers.Signup(d.Accounts, logg))
	r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.Accounts, logg))

	r.Post("/getprofile", controllers.UpsertProfile(d.Profiles, logg))
	r.Get("/displayprofile", controllers.DisplayProfile(d.Profiles, logg))
	r.Get("/getalluserprofile", controllers.AllProfileLocations(d.Profiles, logg))

	r.Post("/getcompanyprofile", controllers.UpsertCompanyProfile(d.Companies, logg))
	r.Get("/displaycompanyprofile", controllers.DisplayCompanyProfile(d.Companies, logg))
	r.Get("/displaycompany", controllers.DisplayCompanyPin(d.Companies, logg))

	r.Post("/quiz_scores", controllers.SubmitQuizScore(d.Quiz, logg))
	r.Post("/wasteUpload", controllers.UploadWaste(d.Waste, logg))
	r.Get("/leaderboard", controllers.Leaderboard(d.Leaderboard, logg))

	r.Post("/companySchedule", controllers.CreateSchedule(d.Schedules, logg))
	r.Get("/displayuserSchedule", controllers.DisplayUserSchedules(d.Schedules, logg))
	r.Get("/displayCompanySchedule", controllers.DisplayCompanySchedules(d.Schedules, logg))
	r.Post("/acceptSchedule", controllers.AcceptSchedule(d.Schedules, logg))
	r.Post("/rejectSchedule", controllers.RejectSchedule(d.Schedules, logg))

	return r
}

// readyPinger keeps a nil redis client out of the readiness checks. A
// typed nil inside the interface would otherwise be pinged.
func readyPinger(c *redis.Client) controllers.Pinger {
	if c == nil {
		return nil
	}
	return c
}
