// Command line entry point: flag parsing, logging setup and orchestration

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/xtruder/fromurl/internal/config"
	"github.com/xtruder/fromurl/internal/cookies"
	"github.com/xtruder/fromurl/internal/document"
	"github.com/xtruder/fromurl/internal/snapshot"
	"github.com/xtruder/fromurl/internal/web"
	"github.com/xtruder/fromurl/internal/x"
)

var version = "dev"

var (
	// Command line flags
	configPath   string
	verbose      bool
	referrer     string
	cookieJar    string
	outputDir    string
	userAgent    string
	maxRedirects int
	timeout      time.Duration
	skipExisting bool
	printLinks   bool

	fetchFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "referrer",
			Usage:       "absolute URL sent as the Referer of the first request",
			Destination: &referrer,
		},
		cli.StringFlag{
			Name:        "cookie-jar",
			Usage:       "name of a persistent cookie jar shared between runs",
			Destination: &cookieJar,
		},
		cli.StringSliceFlag{
			Name:  "cookie",
			Usage: "name=value cookie to send to every fetched URL (repeatable)",
		},
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "save documents as snapshots in this directory instead of printing them",
			Destination: &outputDir,
		},
		cli.BoolFlag{
			Name:        "skip-existing",
			Usage:       "do not fetch URLs that already have a snapshot in the output directory",
			Destination: &skipExisting,
		},
		cli.BoolFlag{
			Name:        "links",
			Usage:       "print the absolute links of each document instead of its markup",
			Destination: &printLinks,
		},
		cli.StringFlag{
			Name:        "user-agent",
			Usage:       "User-Agent header sent with every request",
			Destination: &userAgent,
		},
		cli.IntFlag{
			Name:        "max-redirects",
			Usage:       fmt.Sprintf("maximum number of redirects to follow (default: %d)", web.DefaultMaxRedirects),
			Destination: &maxRedirects,
		},
		cli.DurationFlag{
			Name:        "timeout",
			Usage:       fmt.Sprintf("timeout of a single request (default: %s)", web.DefaultTimeout),
			Destination: &timeout,
		},
	}

	listFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "snapshot directory",
			Destination: &outputDir,
		},
	}
)

func main() {
	app := cli.App{
		Name:      "fromurl",
		HelpName:  "fromurl",
		Usage:     "fetch URLs, follow their redirects and parse them into documents",
		Version:   version,
		UsageText: "fromurl <command> [arguments...]",
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:        "verbose",
				Usage:       "enable verbose logging",
				Destination: &verbose,
			},
			cli.StringFlag{
				Name:        "config, c",
				Usage:       "YAML configuration file",
				EnvVar:      "FROMURL_CONFIG",
				Destination: &configPath,
			},
		},
		Before: setupLogging,
		Commands: []cli.Command{
			{
				Name:      "fetch",
				Aliases:   []string{"f"},
				Usage:     "fetch one or more URLs",
				ArgsUsage: "URL...",
				Action:    fetch,
				Flags:     fetchFlags,
			},
			{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "list captured snapshots",
				Action:  list,
				Flags:   listFlags,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(*cli.Context) error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the config file and applies the flags set on the command line
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if ctx.IsSet("referrer") {
		cfg.Referrer = referrer
	}
	if ctx.IsSet("cookie-jar") {
		cfg.CookieJar = cookieJar
	}
	if ctx.IsSet("output") {
		cfg.Output = outputDir
	}
	if ctx.IsSet("user-agent") {
		cfg.UserAgent = userAgent
	}
	if ctx.IsSet("max-redirects") {
		cfg.MaxRedirects = maxRedirects
	}
	if ctx.IsSet("timeout") {
		cfg.Timeout = timeout
	}

	return cfg, nil
}

func fetch(ctx *cli.Context) error {
	urls := ctx.Args()
	if len(urls) == 0 {
		return cli.NewExitError("no url provided", 1)
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	transportCfg := web.TransportConfig{Timeout: cfg.Timeout}
	if verbose {
		transportCfg.Logger = slog.Default()
	}
	acquirer := web.NewAcquirer(web.NewTransport(transportCfg), document.Constructor, web.Config{
		MaxRedirects: cfg.MaxRedirects,
		MaxBodyBytes: cfg.MaxBodyBytes,
		UserAgent:    cfg.UserAgent,
	})

	jar, saveJar, err := openJar(cfg.CookieJar)
	if err != nil {
		return err
	}

	var store *snapshot.Store
	if cfg.Output != "" {
		if store, err = snapshot.NewStore(cfg.Output); err != nil {
			return err
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var failed int
	for _, u := range urls {
		if store != nil && skipExisting && store.Index().Has(u) {
			slog.Info("skipping captured url", "url", u)
			continue
		}

		seedCookies(jar, u, ctx.StringSlice("cookie"))

		doc, err := acquirer.Acquire(runCtx, u, &web.FetchOptions{
			Referrer:    cfg.Referrer,
			CookieJar:   jar,
			URL:         cfg.URL,
			ContentType: cfg.ContentType,
		})
		if err != nil {
			slog.Error("failed to acquire document", "url", u, "error", err)
			failed++
			continue
		}

		for i, hop := range doc.Hops() {
			slog.Debug("hop",
				"index", i,
				"url", hop.RequestURL.Redacted(),
				"status", hop.StatusCode,
				"referrer", hop.ReferrerSent)
		}

		if store != nil {
			if _, err := store.Save(u, doc); err != nil {
				slog.Error("failed to save snapshot", "url", u, "error", err)
				failed++
			}
			continue
		}

		if printLinks {
			for _, link := range doc.Links() {
				fmt.Printf("%s\t%s\n", link.URL, link.Text)
			}
			continue
		}

		content, err := doc.Serialize()
		if err != nil {
			slog.Error("failed to serialize document", "url", u, "error", err)
			failed++
			continue
		}
		fmt.Println(content)
	}

	if err := saveJar(); err != nil {
		slog.Warn("failed to save cookie jar", "name", cfg.CookieJar, "error", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d urls failed", failed, len(urls))
	}
	return nil
}

// openJar returns the named persistent jar, or a throwaway one when name is
// empty, together with a function that saves it back.
func openJar(name string) (*cookies.MemoryJar, func() error, error) {
	if name == "" {
		return cookies.New(), func() error { return nil }, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	cache, err := x.NewFileCache(filepath.Join(homeDir, ".cache", "fromurl"))
	if err != nil {
		return nil, nil, err
	}

	jar, err := cookies.Load(cache, name)
	if err != nil {
		return nil, nil, err
	}

	return jar, func() error { return cookies.Save(cache, name, jar) }, nil
}

func seedCookies(jar *cookies.MemoryJar, rawURL string, pairs []string) {
	if len(pairs) == 0 {
		return
	}

	u, err := web.ParseURL(rawURL)
	if err != nil {
		// Acquire reports the invalid URL.
		return
	}

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			slog.Warn("ignoring malformed cookie", "cookie", pair)
			continue
		}
		if err := jar.Set(u, name, value); err != nil {
			slog.Warn("ignoring malformed cookie", "cookie", pair, "error", err)
		}
	}
}

func list(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return cli.NewExitError("no output directory provided", 1)
	}

	index, err := snapshot.BuildIndex(cfg.Output)
	if err != nil {
		return err
	}

	lines := slices.Sorted(x.Map(index.Entries(), func(e snapshot.Entry) string {
		return strings.Join([]string{e.URL, e.FetchedAt, e.Title, e.Path}, "\t")
	}))
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
