package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bornholm/searchbot/internal/bot"
	"github.com/bornholm/searchbot/pkg/search"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Bot() *cli.Command {
	return &cli.Command{
		Name:  "bot",
		Usage: "Run the Telegram front-end for the search server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "token",
				Required: true,
				Usage:    "Telegram bot token",
				EnvVars:  []string{"SEARCHBOT_TELEGRAM_TOKEN", "BOT_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "reports-dir",
				Value:   ".",
				Usage:   "Directory where reports are saved",
				EnvVars: []string{"SEARCHBOT_REPORTS_DIR"},
			},
			&cli.IntFlag{
				Name:    "max-results",
				Value:   search.DefaultMaxResults,
				Usage:   "Results requested per search",
				EnvVars: []string{"SEARCHBOT_MAX_RESULTS"},
			},
			&cli.StringFlag{
				Name:    "server-command",
				Value:   "",
				Usage:   "Search server command, defaults to this executable",
				EnvVars: []string{"SEARCHBOT_SERVER_COMMAND"},
			},
		},
		Action: func(cliCtx *cli.Context) error {
			ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverCommand := cliCtx.String("server-command")
			args := []string{"serve"}

			if serverCommand == "" {
				executable, err := os.Executable()
				if err != nil {
					return errors.Wrap(err, "could not resolve the current executable")
				}

				serverCommand = executable
			} else {
				fields := strings.Fields(serverCommand)
				serverCommand = fields[0]
				args = fields[1:]
			}

			session, err := bot.NewSession(ctx, serverCommand, os.Environ(), args...)
			if err != nil {
				return errors.Wrap(err, "failed to start the search server")
			}

			maxResults := cliCtx.Int("max-results")
			reports := bot.NewReportWriter(cliCtx.String("reports-dir"))

			tg := bot.NewTelegram(cliCtx.String("token"))

			handler := func(ctx context.Context, chatID string, text string) {
				query := strings.TrimSpace(text)

				if query == "" {
					reply(ctx, tg, chatID, "Please send a non-empty search query.")
					return
				}

				slog.InfoContext(ctx, "handling search query", slog.String("chat_id", chatID))

				report, err := session.Search(ctx, query, maxResults)
				if err != nil {
					slog.ErrorContext(ctx, "search failed", slog.Any("error", errors.WithStack(err)))
					reply(ctx, tg, chatID, fmt.Sprintf("Search error: %s", err))
					return
				}

				message := report

				path, err := reports.Write(query, report)
				if err != nil {
					slog.ErrorContext(ctx, "could not save report", slog.Any("error", errors.WithStack(err)))
					message += "\n\nThe report could not be saved."
				} else {
					message += fmt.Sprintf("\n\nSaved to: %s", path)
				}

				reply(ctx, tg, chatID, message)
			}

			var result error

			if err := tg.Run(ctx, handler); err != nil {
				result = multierror.Append(result, errors.WithStack(err))
			}

			if err := session.Close(); err != nil {
				result = multierror.Append(result, errors.WithStack(err))
			}

			return result
		},
	}
}

func reply(ctx context.Context, tg *bot.Telegram, chatID string, text string) {
	if err := tg.Send(ctx, chatID, text); err != nil {
		slog.ErrorContext(ctx, "could not send reply", slog.Any("error", errors.WithStack(err)))
	}
}
