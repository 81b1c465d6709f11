package main

import (
	"github.com/qalam-academy/tutor_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title Qalam Academy API
// @version 1.0
// @description Tutoring portal backend: accounts, access codes, lessons and quizzes.
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.JWTService{},
		&services.RedisService{},
		&services.SqlService{},
		&services.StorageService{},

		&services.AuthService{},
		&services.SessionGuardService{},
		&services.StudentService{},
		&services.QuizService{},
		&services.AdminService{},

		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	if err = ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("Service context terminated")
		return
	}
}
