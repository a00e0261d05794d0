// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/cpweb/pkg/core/log"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Document store management actions",
	Long: `Document store management actions can be chosen by sub-commands.
For a fresh installation, the init may be used in order to create the
indexes which are expected by the web server. The ping may be used for
checking the connection settings.`,
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the document store indexes",
	Long: `Create the indexes which are relied upon by the web server,
namely, the unique index of usernames in the users collection.
Existing indexes are kept intact, so it is safe to run it repeatedly.
The connection information are read from the config file.`,
	RunE: initDB,
	Args: cobra.NoArgs,
}

var dbPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Probe the document store",
	Long: `Probe the document store using the connection information of
the config file and report if it could be reached.`,
	RunE: pingDB,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	g, err := c.Database.NewGateway(ctx)
	if err != nil {
		return fmt.Errorf("creating persistence gateway: %w", err)
	}
	defer closeGateway(g)
	if err = g.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensuring indexes: %w", err)
	}
	log.Info(ctx, "indexes are ready", slog.String("db", c.Database.Name))
	return nil
}

func pingDB(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	g, err := c.Database.NewGateway(ctx)
	if err != nil {
		return fmt.Errorf("creating persistence gateway: %w", err)
	}
	defer closeGateway(g)
	if err = g.Probe(ctx); err != nil {
		return fmt.Errorf("probing document store: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "document store is reachable")
	return nil
}

func init() {
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbPingCmd)
	rootCmd.AddCommand(dbCmd)
}
