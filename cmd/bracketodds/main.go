/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mikeb26/bracketodds/elo"
	"github.com/mikeb26/bracketodds/internal"
	"github.com/mikeb26/bracketodds/odds"
	"github.com/mikeb26/bracketodds/tournament"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitInvalidInput = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", filepath.Base(os.Args[0]), err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps anything wrong with the tournament document to 2.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var lerr *tournament.LoadError
	if errors.As(err, &lerr) {
		return exitInvalidInput
	}
	return exitFailure
}

func newRootCmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "bracketodds [file]",
		Short: "Estimate each player's chance of winning a knockout tournament",
		Long: `Reads a tournament document (TOML, YAML, JSON or an HTML entry list) from a
file, an http(s):// URL or an s3://bucket/key location and prints, for every
player in the draw, the probability that they win the whole bracket.

The file defaults to ` + internal.DefaultInput + `. Settings may also be given as
` + internal.EnvPrefix + `_* environment variables, e.g. ` + internal.EnvPrefix + `_LOG_LEVEL=debug.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, args, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.Int("workers", 0, "Bracket ranges computed concurrently (default GOMAXPROCS)")
	flags.String("predictor", "elo", "Match predictor (elo, higher-rated)")
	flags.Float64("scale", elo.DefaultScale, "Elo rating difference at which the stronger player is a 10:1 favourite")
	flags.String("cache-bucket", "", "S3 bucket caching documents fetched over http(s)")
	flags.Duration("cache-ttl", internal.DefaultCacheTTL, "How long fetched documents stay cached")

	for key, name := range map[string]string{
		"log_level":    "log-level",
		"log_format":   "log-format",
		"workers":      "workers",
		"predictor":    "predictor",
		"scale":        "scale",
		"cache_bucket": "cache-bucket",
		"cache_ttl":    "cache-ttl",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	return cmd
}

func run(ctx context.Context, v *viper.Viper, args []string, stdout io.Writer,
	stderr io.Writer) error {

	settings, err := internal.LoadSettings(v)
	if err != nil {
		return err
	}
	logger, err := internal.NewLogger(stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	log := logrus.NewEntry(logger)

	pred, err := newPredictor(settings)
	if err != nil {
		return err
	}

	location := settings.Input
	if len(args) == 1 {
		location = args[0]
	}

	src := &tournament.Sources{}
	if isHTTP(location) {
		src.HTTP = internal.NewCachedHttpClient(ctx, settings.CacheBucket,
			settings.CacheTTL, log)
	}
	loader := tournament.NewLoader(tournament.WithSources(src),
		tournament.WithLogger(log))
	tourney, err := loader.Load(ctx, location)
	if err != nil {
		return err
	}
	if !tourney.Date.IsZero() {
		log.WithField("date", tourney.Date.Format("2006-01-02")).Debug("tournament date")
	}

	engine := odds.NewEngine(pred, odds.WithWorkers(settings.Workers),
		odds.WithLogger(log))
	res, err := engine.Compute(ctx, tourney.Bracket)
	if err != nil {
		return fmt.Errorf("computing odds: %w", err)
	}

	return outputOdds(stdout, res)
}

func newPredictor(settings *internal.Settings) (elo.Predictor, error) {
	switch strings.ToLower(settings.Predictor) {
	case "elo":
		return elo.Elo{Scale: settings.Scale}, nil
	case "higher-rated", "higher_rated":
		return elo.HigherRated{}, nil
	}
	return nil, fmt.Errorf("unknown predictor %q", settings.Predictor)
}

func isHTTP(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// outputOdds prints percentages in plain decimal notation, never exponents.
func outputOdds(w io.Writer, res *odds.Result) error {
	var sb strings.Builder
	for _, o := range res.Outcomes() {
		sb.WriteString(fmt.Sprintf("player %v wins %v%% of the time\n",
			o.Entrant.Name, strconv.FormatFloat(o.Probability*100, 'f', -1, 64)))
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing odds: %w", err)
	}
	return nil
}
