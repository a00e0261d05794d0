// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the cpweb
// project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the document store management actions.
//
//	./cpweb [-c /path/of/main/config.yaml]           # start web server
//	./cpweb db init [-c /path/of/main/config.yaml]   # create indexes
//	./cpweb db ping [-c /path/of/main/config.yaml]   # probe the store
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/momeni/cpweb/pkg/adapter/config"
	"github.com/momeni/cpweb/pkg/adapter/config/cfg1"
	"github.com/momeni/cpweb/pkg/adapter/db/mongo"
	"github.com/momeni/cpweb/pkg/adapter/db/mongo/docrp"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin"
	"github.com/momeni/cpweb/pkg/adapter/restful/gin/routes"
	"github.com/momeni/cpweb/pkg/core/log"
	"github.com/momeni/cpweb/pkg/core/model"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	cfgOptional bool
)

var rootCmd = &cobra.Command{
	Use:   "cpweb",
	Short: "A REST service for parkings, users, reservations, and payments",
	Long: `A REST service which manages parkings, users, reservations, and
payments as documents of a MongoDB database.
Each resource supports creation, listing, retrieval, merging updates,
and deletion. Users may also be authenticated by their username and
password.
The web server starts even if the document store is not reachable.
Requests are answered with 503 status code until the store is reached
and the /healthz route reports the current readiness.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info(
		ctx, "connecting to the document store",
		slog.String("db", c.Database.Name),
		log.Valuer("connect-timeout", c.Database.ConnectTimeout),
		log.Valuer("probe-interval", c.Database.ProbeInterval),
	)
	g, err := c.Database.NewGateway(ctx)
	if err != nil {
		return fmt.Errorf("creating persistence gateway: %w", err)
	}
	defer closeGateway(g)
	v, err := c.Users.NewVerifier()
	if err != nil {
		return fmt.Errorf("creating credentials verifier: %w", err)
	}
	var e *gin.Engine = c.Gin.NewEngine()
	if err = routes.Register(e, g, newRepos(g), v); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	addr := c.Server.Addr()
	log.Info(
		ctx, "starting web server",
		slog.String("addr", addr),
		slog.String("password-scheme", v.Scheme()),
	)
	if err = e.Run(addr); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// loadConfig loads the configuration settings from the cfgPath and
// installs the configured logger as the default logger.
func loadConfig() (*cfg1.Config, error) {
	c, err := config.Load(cfgPath, cfgOptional)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if err = c.Logging.Install(os.Stderr); err != nil {
		return nil, fmt.Errorf("installing logger: %w", err)
	}
	return c, nil
}

func newRepos(g *mongo.Gateway) routes.Repos {
	return routes.Repos{
		Parkings: docrp.New[model.Parking](g, mongo.ParkingsCollection),
		Users:    docrp.New[model.User](g, mongo.UsersCollection),
		Reservations: docrp.New[model.Reservation](
			g, mongo.ReservationsCollection,
		),
		Payments: docrp.New[model.Payment](g, mongo.PaymentsCollection),
	}
}

func closeGateway(g *mongo.Gateway) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.Close(ctx); err != nil {
		log.Warn(ctx, "closing persistence gateway", log.Err("error", err))
	}
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
// Only the default path is optional, so the default settings are used
// when it does not exist.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
		cfgOptional = true
	}
}
