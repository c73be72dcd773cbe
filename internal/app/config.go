package app

import (
	"strings"
	"time"

	"github.com/examtrail/examtrail-backend/internal/logger"
	"github.com/examtrail/examtrail-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AllowedOrigins  []string
	Environment     string
	Version         string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	rawOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)
	var origins []string
	for _, origin := range strings.Split(rawOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		AllowedOrigins:  origins,
		Environment:     utils.GetEnv("APP_ENV", "development", log),
		Version:         utils.GetEnv("APP_VERSION", "dev", log),
	}
}
