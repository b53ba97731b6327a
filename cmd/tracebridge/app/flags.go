// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"flag"

	"github.com/spf13/viper"
)

const (
	inputFlag    = "input"
	outputFlag   = "output"
	stateDirFlag = "state-dir"
	sessionFlag  = "session"
	saveFlag     = "save"
)

// Config holds the options shared by the replay and normalize commands.
type Config struct {
	// Input is the record stream to read, "-" for stdin.
	Input string
	// Output is where normalized records go, "-" for stdout.
	Output string
	// StateDir is the snapshot database directory; empty keeps state in
	// memory only.
	StateDir string
	// Session names the snapshot to seed from and save to.
	Session string
	// Save persists receiver snapshots after a replay.
	Save bool
}

// AddFlags registers the command's flags.
func AddFlags(flags *flag.FlagSet) {
	flags.String(inputFlag, "-", "File with one JSON record per line, or - for stdin")
	flags.String(outputFlag, "-", "Output file, or - for stdout")
	flags.String(stateDirFlag, "", "Directory for the snapshot database; empty keeps snapshots in memory")
	flags.String(sessionFlag, "default", "Session name for loading and saving snapshots")
	flags.Bool(saveFlag, false, "Save receiver snapshots after replaying")
}

// InitFromViper initializes the config from viper.Viper.
func (c *Config) InitFromViper(v *viper.Viper) {
	c.Input = v.GetString(inputFlag)
	c.Output = v.GetString(outputFlag)
	c.StateDir = v.GetString(stateDirFlag)
	c.Session = v.GetString(sessionFlag)
	c.Save = v.GetBool(saveFlag)
}

// InitFromArgs applies the command's optional positional argument, the
// input file, which takes precedence over the --input flag.
func (c *Config) InitFromArgs(args []string) {
	if len(args) > 0 {
		c.Input = args[0]
	}
}
