package main

import (
	"os"

	"nba-boxscore-scraper/cli"
)

func main() {
	os.Exit(cli.Execute())
}
