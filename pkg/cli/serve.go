package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/secmon-lab/invy/pkg/cli/config"
	"github.com/secmon-lab/invy/pkg/controller/server"
	"github.com/secmon-lab/invy/pkg/infra"
	"github.com/secmon-lab/invy/pkg/usecase"
	"github.com/secmon-lab/invy/pkg/utils/logging"

	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr           string
		inviteInterval time.Duration

		githubOAuth config.GitHubOAuth
		auth        config.Auth
		sentry      config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("INVY_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "invite-interval",
			Usage:       "Minimum pause between per-user invite requests in a batch",
			Value:       500 * time.Millisecond,
			Sources:     cli.EnvVars("INVY_INVITE_INTERVAL"),
			Destination: &inviteInterval,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			githubOAuth.Flags(),
			auth.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("InviteInterval", inviteInterval),
				slog.Any("GitHubOAuth", githubOAuth),
				slog.Any("Auth", auth),
				slog.Any("Sentry", sentry),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}

			clients := infra.New()
			uc := usecase.New(clients, usecase.WithInviteInterval(inviteInterval))

			var serverOptions []server.Option
			if githubOAuth.IsConfigured() {
				authUC := usecase.NewAuth(clients,
					githubOAuth.ClientID(),
					githubOAuth.ClientSecret(),
					auth.JWTSecret(),
				)
				serverOptions = append(serverOptions,
					server.WithAuth(authUC, githubOAuth.ClientID()),
				)
				if githubOAuth.CallbackURL() != "" {
					serverOptions = append(serverOptions,
						server.WithCallbackURL(githubOAuth.CallbackURL()),
					)
				}
			} else {
				logging.Default().Warn("GitHub OAuth is not configured, auth endpoints are disabled")
			}

			s := server.New(uc, serverOptions...)

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				// Batches pace themselves between users and may wait for
				// rate-limit resets, so responses can take minutes.
				WriteTimeout: 10 * time.Minute,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}
