package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays environment variables. Unlike the file and flag layers it
// keeps going after a bad value and returns every problem it found.
//
//	PORT                  HTTP port, becomes ":<PORT>"
//	DATABASE_DSN          storage DSN
//	SECRET_KEY            token signing secret
//	ACCESS_TOKEN_TTL      token lifetime, e.g. "1h"
//	BCRYPT_COST           bcrypt cost factor
//	CORS_ALLOWED_ORIGINS  comma separated origins
func parseEnv(config *Config) []error {
	var errs []error

	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid ACCESS_TOKEN_TTL %q: %w", v, err))
		} else {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err))
		} else {
			config.BcryptCost = n
		}
	}
	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.CORSAllowedOrigins = origins
	}

	return errs
}
