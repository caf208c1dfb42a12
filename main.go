// Package main is the entry point for the aramstats CLI tool, which reads ARAM
// match participation CSVs and computes champion, item, spell and rune statistics.
package main

import "github.com/pable/aram-stats/cmd"

func main() {
	cmd.Execute()
}
