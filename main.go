// Package main is the entry point for the pokerth-tracker CLI tool, which
// computes and tracks per-player poker statistics from PokerTH session logs.
package main

import "github.com/MCNCHEESYF/pokerth-tracker/cmd"

func main() {
	cmd.Execute()
}
