package config

import (
	"log/slog"

	"github.com/secmon-lab/invy/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

type Auth struct {
	jwtSecret types.JWTSecret `masq:"secret"`
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "Secret key for signing session tokens (session tokens are disabled when empty)",
			Category:    "Auth",
			Destination: (*string)(&x.jwtSecret),
			Sources:     cli.EnvVars("INVY_JWT_SECRET"),
		},
	}
}

func (x Auth) JWTSecret() types.JWTSecret {
	return x.jwtSecret
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("JWTSecret.len", len(x.jwtSecret)),
	)
}
