// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tracebridge/tracebridge/cmd/tracebridge/app"
)

var logger, _ = zap.NewDevelopment()

func main() {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("tracebridge")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	root := &cobra.Command{
		Use:   "tracebridge",
		Short: "Tracebridge replays and normalizes tracing record streams",
	}

	replay := &cobra.Command{
		Use:   "replay [file]",
		Short: "Replay a record stream into a capture store and report what was captured",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := app.Config{}
			cfg.InitFromViper(v)
			cfg.InitFromArgs(args)
			return app.Replay(cfg, logger)
		},
	}

	normalize := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Rewrite a record stream's IDs into first-appearance order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := app.Config{}
			cfg.InitFromViper(v)
			cfg.InitFromArgs(args)
			return app.Normalize(cfg, logger)
		},
	}

	flags := &flag.FlagSet{}
	app.AddFlags(flags)
	root.PersistentFlags().AddGoFlagSet(flags)
	v.BindPFlags(root.PersistentFlags())

	root.AddCommand(replay)
	root.AddCommand(normalize)

	if err := root.Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
