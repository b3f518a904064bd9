package main

import (
	"github.com/bornholm/searchbot/internal/command"
	"github.com/bornholm/searchbot/internal/command/bot"
	"github.com/bornholm/searchbot/internal/command/search"
	"github.com/bornholm/searchbot/internal/command/serve"
)

var version = "dev"

func main() {
	command.Main(
		"searchbot",
		version,
		"Web search tools for chat front-ends",
		serve.Serve(),
		bot.Bot(),
		search.Search(),
	)
}
