package command

import (
	"net/http"
	"time"

	"github.com/bornholm/searchbot/pkg/ratelimit"
	"github.com/bornholm/searchbot/pkg/scraper"
	chromedpScraper "github.com/bornholm/searchbot/pkg/scraper/chromedp"
	surfScraper "github.com/bornholm/searchbot/pkg/scraper/surf"
	"github.com/bornholm/searchbot/pkg/search"
	"github.com/bornholm/searchbot/pkg/search/duckduckgo"
	"github.com/bornholm/searchbot/pkg/search/google"
	"github.com/bornholm/searchbot/pkg/search/searx"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// EngineFlags are shared by every command that runs the search pipeline.
func EngineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "engine",
			Value:   "duckduckgo",
			Usage:   "Search engine to use (duckduckgo, searx, google)",
			EnvVars: []string{"SEARCHBOT_ENGINE"},
		},
		&cli.StringFlag{
			Name:    "scraper",
			Value:   "http",
			Usage:   "Scraper backend to use (http, surf, chromedp)",
			EnvVars: []string{"SEARCHBOT_SCRAPER"},
		},
		&cli.IntFlag{
			Name:    "rate-limit",
			Value:   ratelimit.DefaultCeiling,
			Usage:   "Maximum upstream requests per window",
			EnvVars: []string{"SEARCHBOT_RATE_LIMIT"},
		},
		&cli.DurationFlag{
			Name:    "rate-window",
			Value:   ratelimit.DefaultWindow,
			Usage:   "Rate limiting window",
			EnvVars: []string{"SEARCHBOT_RATE_WINDOW"},
		},
		&cli.IntFlag{
			Name:    "max-retries",
			Value:   0,
			Usage:   "Retries per search on upstream failure",
			EnvVars: []string{"SEARCHBOT_MAX_RETRIES"},
		},
		&cli.DurationFlag{
			Name:    "retry-delay",
			Value:   time.Second,
			Usage:   "Base delay between retries",
			EnvVars: []string{"SEARCHBOT_RETRY_DELAY"},
		},
		&cli.StringSliceFlag{
			Name:    "blocked-domains",
			Usage:   "Domain glob patterns excluded from results",
			EnvVars: []string{"SEARCHBOT_BLOCKED_DOMAINS"},
		},
		&cli.StringFlag{
			Name:    "searx-instance",
			Value:   "https://searx.be",
			Usage:   "SearX instance to query (searx engine only)",
			EnvVars: []string{"SEARCHBOT_SEARX_INSTANCE"},
		},
		&cli.StringFlag{
			Name:    "google-api-key",
			Value:   "",
			Usage:   "Google Custom Search API key (google engine only)",
			EnvVars: []string{"SEARCHBOT_GOOGLE_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "google-cx",
			Value:   "",
			Usage:   "Google Custom Search engine id (google engine only)",
			EnvVars: []string{"SEARCHBOT_GOOGLE_CX"},
		},
	}
}

// BuildScraper creates the scraper backend selected by the shared flags. The
// returned closer releases backend resources and may be called once.
func BuildScraper(cliCtx *cli.Context) (scraper.Scraper, func(), error) {
	switch backend := cliCtx.String("scraper"); backend {
	case "http":
		return scraper.NewHTTPScraper(&http.Client{
			Timeout: 30 * time.Second,
		}), func() {}, nil

	case "surf":
		return surfScraper.NewScraper(), func() {}, nil

	case "chromedp":
		s, err := chromedpScraper.NewScraper(true)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to start chromedp scraper")
		}

		return s, s.Close, nil

	default:
		return nil, nil, errors.Errorf("unknown scraper backend %q", backend)
	}
}

// BuildSearchClient assembles the search pipeline selected by the shared
// flags: engine, then optional domain filtering and retries.
func BuildSearchClient(cliCtx *cli.Context, sc scraper.Scraper) (search.Client, error) {
	var (
		client search.Client
		err    error
	)

	switch engine := cliCtx.String("engine"); engine {
	case "duckduckgo":
		limiter := ratelimit.NewLimiter(cliCtx.Int("rate-limit"), cliCtx.Duration("rate-window"))
		client = duckduckgo.NewClient(sc, duckduckgo.WithLimiter(limiter))

	case "searx":
		client, err = searx.NewClient(cliCtx.String("searx-instance"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create searx client")
		}

	case "google":
		apiKey := cliCtx.String("google-api-key")
		cx := cliCtx.String("google-cx")

		if apiKey == "" || cx == "" {
			return nil, errors.New("the google engine requires --google-api-key and --google-cx")
		}

		client = google.NewClient(apiKey, cx)

	default:
		return nil, errors.Errorf("unknown search engine %q", engine)
	}

	if blocked := cliCtx.StringSlice("blocked-domains"); len(blocked) > 0 {
		client, err = search.WithDomainFilter(client, blocked...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create domain filter")
		}
	}

	if maxRetries := cliCtx.Int("max-retries"); maxRetries > 0 {
		client = search.WithRetry(client, maxRetries, cliCtx.Duration("retry-delay"))
	}

	return client, nil
}
