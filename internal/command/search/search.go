package search

import (
	"fmt"
	"strings"

	"github.com/bornholm/searchbot/internal/command"
	"github.com/bornholm/searchbot/pkg/search"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Search() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a single search and print the report",
		ArgsUsage: "<query>",
		Flags: append(command.EngineFlags(),
			&cli.IntFlag{
				Name:    "max-results",
				Value:   search.DefaultMaxResults,
				Aliases: []string{"n"},
				Usage:   "Maximum number of results",
				EnvVars: []string{"SEARCHBOT_MAX_RESULTS"},
			},
		),
		Action: func(cliCtx *cli.Context) error {
			query := strings.TrimSpace(strings.Join(cliCtx.Args().Slice(), " "))
			if query == "" {
				return errors.New("please provide a search query")
			}

			sc, closeScraper, err := command.BuildScraper(cliCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			defer closeScraper()

			client, err := command.BuildSearchClient(cliCtx, sc)
			if err != nil {
				return errors.WithStack(err)
			}

			results, err := client.Search(cliCtx.Context, query, cliCtx.Int("max-results"))
			if err != nil {
				return errors.Wrap(err, "search failed")
			}

			fmt.Println(search.FormatResults(results))

			return nil
		},
	}
}
