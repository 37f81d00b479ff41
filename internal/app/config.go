package app

import (
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/platform/envutil"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
)

type Config struct {
	JWTSecretKey string
	Port         string
	AllowOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	origins := envutil.Get("CORS_ALLOW_ORIGINS", "", log)
	var allow []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allow = append(allow, o)
		}
	}
	return Config{
		JWTSecretKey: envutil.Get("JWT_SECRET_KEY", "defaultsecret", log),
		Port:         envutil.Get("PORT", "8080", log),
		AllowOrigins: allow,
	}
}
