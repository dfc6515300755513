// Copyright 2025 The WordChain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word chain helper CLI and IPC server.

WordChain answers questions about the word chain game: which words can
follow a given word, which of them end the game, how to steer a chain into
a dead word, and whether a played sequence is valid. Vietnamese words chain
on whole syllables ("bánh mì" → "mì quảng"), English words on letters
("cat" → "tiger").

# Usage

One-shot lookups:

	wordchain next "bánh mì"
	wordchain check "bánh mì" "mì quảng"
	wordchain -l en chains cat

Interactive prompt:

	wordchain repl

IPC server on stdin/stdout for desktop and browser shells:

	wordchain serve
	wordchain serve --codec msgpack

# Configuration

Settings live in a TOML file created with defaults on first run, normally
~/.config/wordchain/config.toml:

	[engine]
	max_results = 50
	dead_first = true
	chain_budget = 1500

	[dict]
	language = "vietnamese"
	data_dir = ""

	[storage]
	backend = "json"

	[server]
	codec = "json"
	watch = true

Use --config to point at another file. A file that fails to parse is
recovered key by key; anything unreadable keeps its default.

# Word lists

Built-in lists are compiled into the binary. Extra words are read from
<data_dir>/<language>.txt, one word per line. Words added with "add" or
the add-words command are stored per language in the user word file and
survive restarts and language switches.

# Server Mode

The server writes {"status":"ready"} and then answers one response per
request. With server.watch set, edits to the user word file made by
another process are picked up without a restart. See package server for
the command list.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	gh      = "https://github.com/bastiangx/wordchain"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
