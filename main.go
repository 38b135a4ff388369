// Command motus serves the word game over HTTP.
//
// Configuration comes from the environment (a .env file is loaded first):
// PORT, LOG_LEVEL, DB_PATH, WORDS_DIR, MAX_TRIES, DAILY_SALT plus the auth
// and CORS variables read by internal/httpserver.
package main

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/motus/assets"
	"github.com/robalobadob/motus/internal/database"
	"github.com/robalobadob/motus/internal/httpserver"
	"github.com/robalobadob/motus/internal/store"
	"github.com/robalobadob/motus/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := database.Open(getEnv("DB_PATH", "./data/motus.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	migrations, err := assets.Migrations()
	if err != nil {
		log.Fatal().Err(err).Msg("load migrations")
	}
	if err := database.Migrate(db, migrations); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	src, err := words.SourceFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("word source")
	}
	lib := words.NewLibrary(src)
	n, err := lib.ChallengeCount(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load challenges")
	}
	log.Info().Int("challenges", n).Str("words_dir", os.Getenv("WORDS_DIR")).Msg("word library ready")

	maxTries, _ := strconv.Atoi(os.Getenv("MAX_TRIES"))
	srv := httpserver.New(httpserver.Options{
		Store:     store.NewMemoryStore(),
		DB:        db,
		Library:   lib,
		MaxTries:  maxTries,
		DailySalt: getEnv("DAILY_SALT", "local_dev_salt"),
	})

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting motus server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
