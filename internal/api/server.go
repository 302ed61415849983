package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/limetric/timelog/internal/service"
)

type Server struct {
	mx                *chi.Mux
	userService       service.UserServiceI
	activitiesService service.ActivitiesServiceI
	goalsService      service.GoalsServiceI
	statsService      service.StatsServiceI
	jwtService        JWTServiceI
}

type ServicesList struct {
	UserService       service.UserServiceI
	ActivitiesService service.ActivitiesServiceI
	GoalsService      service.GoalsServiceI
	StatsService      service.StatsServiceI
	JwtService        JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                chi.NewMux(),
		userService:       servicesOptions.UserService,
		activitiesService: servicesOptions.ActivitiesService,
		goalsService:      servicesOptions.GoalsService,
		statsService:      servicesOptions.StatsService,
		jwtService:        servicesOptions.JwtService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/activities/{date}", s.GetActivitiesByDate)
			r.Get("/activities/range/{start}/{end}", s.GetActivitiesByRange)
			r.Post("/activities", s.CreateActivity)
			r.Put("/activities/{id}", s.UpdateActivity)
			r.Delete("/activities/{id}", s.DeleteActivity)
			r.Get("/goals", s.GetGoals)
			r.Put("/goals", s.UpsertGoal)
			r.Delete("/goals/{id}", s.DeleteGoal)
			r.Get("/goals/progress/{date}", s.GetGoalProgress)
			r.Get("/stats/daily/{date}", s.GetDailyStats)
			r.Get("/stats/weekly/{date}", s.GetWeeklyStats)
			r.Get("/stats/monthly/{year}/{month}", s.GetMonthlyStats)
			r.Get("/stats/range/{start}/{end}", s.GetRangeStats)
		})
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(address string) error {
	return http.ListenAndServe(address, s.mx)
}
