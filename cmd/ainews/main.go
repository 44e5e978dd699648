package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"ainews/internal/classify"
	"ainews/internal/config"
	"ainews/internal/ingest"
	"ainews/internal/list"
	"ainews/internal/markdown"
	"ainews/internal/news"
	"ainews/internal/server"
	"ainews/internal/setup"
	"ainews/internal/tui"
	"ainews/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    "ainews",
		Usage:   "Collect a day of news articles and flag the AI-related ones",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch a section page and store the articles published on one day",
				Flags: []cli.Flag{
					dateFlag(),
					&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Configured section name (default from config)"},
					&cli.StringFlag{Name: "url", Usage: "Fetch this page instead of a configured section"},
					logFileFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					_, err := fetch(ctx, c)
					return err
				},
			},
			{
				Name:  "classify",
				Usage: "Ask the AI model whether each unclassified article is AI-related",
				Flags: []cli.Flag{logFileFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return classifyPending(ctx, c)
				},
			},
			{
				Name:  "run",
				Usage: "Fetch, then classify everything still pending",
				Flags: []cli.Flag{
					dateFlag(),
					&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Configured section name (default from config)"},
					&cli.StringFlag{Name: "url", Usage: "Fetch this page instead of a configured section"},
					logFileFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if _, err := fetch(ctx, c); err != nil {
						return err
					}
					return classifyPending(ctx, c)
				},
			},
			{
				Name:  "list",
				Usage: "List the AI-related articles of a day",
				Flags: []cli.Flag{dateFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					date, err := parseDate(c)
					if err != nil {
						return err
					}
					return list.Run(ctx, date, config.AppConfigLoader())
				},
			},
			{
				Name:  "review",
				Usage: "Browse the AI-related articles of a day and select them for export",
				Flags: []cli.Flag{dateFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					date, err := parseDate(c)
					if err != nil {
						return err
					}
					return tui.Run(ctx, date, config.AppConfigLoader())
				},
			},
			{
				Name:  "export",
				Usage: "Write the selected articles of a day to a Markdown file",
				Flags: []cli.Flag{
					dateFlag(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default ainews-<date>.md)"},
					&cli.BoolFlag{Name: "all", Usage: "Export every AI-related article of the day, not only the selection"},
					&cli.StringSliceFlag{Name: "url", Usage: "Export exactly these stored articles (repeatable)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					date, err := parseDate(c)
					if err != nil {
						return err
					}
					path, n, err := markdown.Export(ctx, markdown.Options{
						Date: date,
						Out:  c.String("out"),
						All:  c.Bool("all"),
						URLs: c.StringSlice("url"),
					}, config.AppConfigLoader())
					if errors.Is(err, markdown.ErrNothingToExport) {
						fmt.Println("Nothing to export. Select articles with 'ainews review' or pass --all.")
						return nil
					}
					if err != nil {
						return err
					}
					fmt.Printf("Exported %d articles to %s\n", n, path)
					return nil
				},
			},
			{
				Name:  "server",
				Usage: "Run MCP server on stdio",
				Action: func(ctx context.Context, c *cli.Command) error {
					return server.Run(ctx, config.AppConfigLoader())
				},
			},
			{
				Name:  "setup",
				Usage: "Interactively set up the AI key, default section and database",
				Action: func(ctx context.Context, c *cli.Command) error {
					return setup.Run(ctx)
				},
			},
			{
				Name:  "init",
				Usage: "Write a starter configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing file (a backup is kept)"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					path, err := config.ConfigPath()
					if err != nil {
						return err
					}
					written, err := config.WriteDefault(path, c.Bool("force"))
					if err != nil {
						return err
					}
					fmt.Printf("Configuration written to %s\n", written)
					return nil
				},
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(ctx context.Context, c *cli.Command) error {
					fmt.Println(version.GetVersion())
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func dateFlag() cli.Flag {
	return &cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Publication day as YYYY-MM-DD (default: yesterday, UTC)"}
}

func logFileFlag() cli.Flag {
	return &cli.StringFlag{Name: "log-file", Usage: "Write logs to this file instead of stderr"}
}

func parseDate(c *cli.Command) (news.Date, error) {
	return news.ParseDate(c.String("date"))
}

func fetch(ctx context.Context, c *cli.Command) (ingest.Report, error) {
	date, err := parseDate(c)
	if err != nil {
		return ingest.Report{}, err
	}
	report, err := ingest.Run(ctx, ingest.Options{
		LogFile: c.String("log-file"),
		Source:  c.String("source"),
		URL:     c.String("url"),
		Date:    date,
	}, config.AppConfigLoader())
	if err != nil {
		return report, err
	}
	fmt.Printf("%s, %s: %d articles on the page, %d published that day, %d new\n",
		report.Source, report.Target, report.Parsed, report.Matched, report.Inserted)
	return report, nil
}

func classifyPending(ctx context.Context, c *cli.Command) error {
	res, err := classify.Run(ctx, c.String("log-file"), config.AppConfigLoader())
	fmt.Printf("Checked %d articles: %d AI-related, %d not, %d skipped\n",
		res.Checked, res.Relevant, res.NotRelevant, res.Skipped)
	return err
}
