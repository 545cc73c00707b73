package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/invy/pkg/domain/model"
	"github.com/secmon-lab/invy/pkg/domain/types"
	"github.com/secmon-lab/invy/pkg/infra"
	"github.com/secmon-lab/invy/pkg/usecase"
	"github.com/secmon-lab/invy/pkg/utils/logging"

	"github.com/urfave/cli/v3"
)

// inviteCommand runs one batch from the terminal without starting the
// server, e.g. `invy invite -m repository -t acme/widgets alice bob`.
func inviteCommand() *cli.Command {
	var (
		token          string
		mode           string
		target         string
		permission     string
		inviteInterval time.Duration
	)

	return &cli.Command{
		Name:      "invite",
		Aliases:   []string{"i"},
		Usage:     "Invite users to a repository or organization",
		ArgsUsage: "<username>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "token",
				Usage:       "GitHub access token",
				Sources:     cli.EnvVars("INVY_GITHUB_TOKEN", "GITHUB_TOKEN"),
				Destination: &token,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "mode",
				Aliases:     []string{"m"},
				Usage:       "Invite mode [repository|organization]",
				Value:       string(types.InviteModeRepository),
				Destination: &mode,
			},
			&cli.StringFlag{
				Name:        "target",
				Aliases:     []string{"t"},
				Usage:       "Repository in format 'owner/repo', or organization name",
				Destination: &target,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "permission",
				Aliases:     []string{"p"},
				Usage:       "Permission level: read|write|admin for repositories, member|admin for organizations",
				Destination: &permission,
			},
			&cli.DurationFlag{
				Name:        "invite-interval",
				Usage:       "Minimum pause between per-user invite requests",
				Value:       500 * time.Millisecond,
				Destination: &inviteInterval,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			users := c.Args().Slice()
			if len(users) == 0 {
				return goerr.New("at least one username is required")
			}

			if permission == "" {
				switch types.InviteMode(mode) {
				case types.InviteModeRepository:
					permission = string(types.RepoPermissionWrite)
				case types.InviteModeOrganization:
					permission = string(types.OrgRoleMember)
				}
			}

			req := &model.InvitationRequest{
				Users:      users,
				TargetName: target,
				Permission: permission,
				Mode:       types.InviteMode(mode),
			}

			uc := usecase.New(infra.New(), usecase.WithInviteInterval(inviteInterval))

			result, err := uc.BatchInvite(ctx, types.AccessToken(token), req)
			if err != nil {
				return err
			}

			logging.Default().Info("batch invitation finished",
				slog.Int("successful", result.Successful),
				slog.Int("failed", result.Failed),
			)

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(result); err != nil {
				return goerr.Wrap(err, "failed to output result")
			}

			return nil
		},
	}
}
