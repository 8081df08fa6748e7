/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command feedtoken inspects serialized change-feed continuation tokens and
// dry-runs their resolution against a YAML topology description.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/suparena/docstore"
	"github.com/suparena/docstore/changefeed"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/routing"
	"github.com/suparena/docstore/storagemodels"
)

var (
	versionFlag  = flag.Bool("version", false, "Show version information")
	vFlag        = flag.Bool("v", false, "Show version information (short)")
	decodeFlag   = flag.String("decode", "", "Decode a continuation token and print its state")
	topologyFlag = flag.String("topology", "", "Topology YAML file for -check")
	checkFlag    = flag.String("check", "", "Resolve a continuation token against the -topology file")
)

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		info := docstore.GetVersionInfo()
		fmt.Printf("DocStore feedtoken version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	switch {
	case *decodeFlag != "":
		if err := decode(*decodeFlag); err != nil {
			fail(err)
		}
	case *checkFlag != "":
		if *topologyFlag == "" {
			fail(fmt.Errorf("-check requires -topology"))
		}
		if err := check(*checkFlag, *topologyFlag); err != nil {
			fail(err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "feedtoken: %v\n", err)
	os.Exit(1)
}

func decode(token string) error {
	state, err := changefeed.FromContinuation(token)
	if err != nil {
		return err
	}

	fmt.Printf("Version:   %s\n", state.Version())
	fmt.Printf("Container: %s\n", state.ContainerID())

	switch s := state.(type) {
	case *changefeed.StateV2:
		fmt.Printf("FeedRange: %s\n", s.FeedRange())
		fmt.Printf("StartFrom: %s\n", s.StartFrom().Kind)
		fmt.Printf("Ranges (%d, active first):\n", s.RangeCount())
		for _, t := range s.Tokens() {
			pos := t.Token
			if pos == "" {
				pos = "<unpositioned>"
			}
			fmt.Printf("  %-32s %s\n", t.Range, pos)
		}
	case *changefeed.StateV1:
		fmt.Printf("PartitionKeyRangeID: %s\n", s.PartitionKeyRangeID())
	}
	return nil
}

func check(token, topologyPath string) error {
	provider, err := routing.LoadTopologyFile(topologyPath)
	if err != nil {
		return err
	}
	state, err := changefeed.FromContinuation(token)
	if err != nil {
		return err
	}

	var opts storagemodels.FeedOptions
	err = state.PopulateFeedOptions(context.Background(), provider, &opts)
	switch {
	case errors.IsFeedRangeGone(err):
		fmt.Printf("Active range %s spans multiple partitions: the cursor must refresh before its next page\n", state.ActiveRange())
		return nil
	case err != nil:
		return err
	}

	fmt.Printf("Active range %s routes to partition %s\n", state.ActiveRange(), opts.PartitionKeyRangeID)
	if opts.EPKStart != "" || opts.EPKEnd != "" {
		fmt.Printf("Server-side filter: [%s, %s)\n", opts.EPKStart, opts.EPKEnd)
	}
	return nil
}
