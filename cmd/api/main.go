// @title Timelog API
// @description API for the personal time-tracking app "Timelog"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/limetric/timelog/internal/api"
	"github.com/limetric/timelog/internal/repository"
	"github.com/limetric/timelog/internal/service"
	"github.com/limetric/timelog/pkg/config"
	jwtservice "github.com/limetric/timelog/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	activitiesRepo := repository.NewActivitiesRepo(&dbCfg)
	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg))
	activitiesService := service.NewActivitiesService(activitiesRepo)
	goalsService := service.NewGoalsService(repository.NewGoalsRepo(&dbCfg), activitiesRepo)
	statsService := service.NewStatsService(activitiesRepo)
	serv := api.New(&api.ServicesList{
		UserService:       userService,
		ActivitiesService: activitiesService,
		GoalsService:      goalsService,
		StatsService:      statsService,
		JwtService:        jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
