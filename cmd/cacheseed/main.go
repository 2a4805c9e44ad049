/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
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
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mikeb26/bracketodds/internal"
	"github.com/mikeb26/bracketodds/tournament"
)

// this program exists just to seed the S3 http cache with tournament
// documents ahead of a run

// seedInterval keeps us from pegging the hosts serving entry lists.
const seedInterval = 2 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	settings, err := internal.LoadSettings(nil)
	if err == nil {
		err = seed(ctx, settings, os.Args[1:], os.Stdout)
	}
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cacheseed: %v\n", err)
		os.Exit(1)
	}
}

// seed fetches each URL through the cached client so later bracketodds runs
// are served from the cache. Failures are logged and skipped.
func seed(ctx context.Context, settings *internal.Settings, urls []string,
	out io.Writer) error {

	if settings.CacheBucket == "" {
		return fmt.Errorf("%v_CACHE_BUCKET must be set", internal.EnvPrefix)
	}
	if len(urls) == 0 {
		return errors.New("usage: cacheseed <url> [url...]")
	}
	logger, err := internal.NewLogger(os.Stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	log := logrus.NewEntry(logger).WithField("component", "cacheseed")

	client := internal.NewCachedHttpClient(ctx, settings.CacheBucket,
		settings.CacheTTL, log)
	loader := tournament.NewLoader(
		tournament.WithSources(&tournament.Sources{HTTP: client}),
		tournament.WithLogger(log))

	limiter := rate.NewLimiter(rate.Every(seedInterval), 1)
	for _, u := range urls {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		t, err := loader.Load(ctx, u)
		if err != nil {
			// best effort
			log.WithError(err).Warn("failed to seed")
			continue
		}

		fmt.Fprintf(out, "seeded %v (%v players)\n", u, len(t.Entrants))
	}

	return nil
}
