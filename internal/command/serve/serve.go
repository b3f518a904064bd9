package serve

import (
	"log/slog"

	"github.com/bornholm/searchbot/internal/command"
	"github.com/bornholm/searchbot/pkg/tool"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Serve() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Expose the search tools over stdio",
		Flags: command.EngineFlags(),
		Action: func(cliCtx *cli.Context) error {
			sc, closeScraper, err := command.BuildScraper(cliCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			defer closeScraper()

			client, err := command.BuildSearchClient(cliCtx, sc)
			if err != nil {
				return errors.WithStack(err)
			}

			s := server.NewMCPServer(
				cliCtx.App.Name,
				cliCtx.App.Version,
				server.WithToolCapabilities(false),
				server.WithRecovery(),
			)

			tool.Register(s, client, sc)

			slog.InfoContext(cliCtx.Context, "serving search tools on stdio")

			if err := server.ServeStdio(s); err != nil {
				return errors.Wrap(err, "stdio server exited")
			}

			return nil
		},
	}
}
