// scatter computes and previews curve-placed asset layouts from scene files.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/splinescatter/internal/config"
	"github.com/Faultbox/splinescatter/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	scenePath := ""
	if len(args) > 1 {
		scenePath = args[1]
	}
	cfg, err := config.Load(scenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command, rest := args[0], args[1:]
	switch command {
	case "layout", "ls":
		err = cmdLayout(cfg, rest)
	case "preview", "png":
		err = cmdPreview(cfg, rest)
	case "watch":
		err = cmdWatch(cfg, rest)
	case "convert":
		err = cmdConvert(rest)
	case "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scatter - place assets, segments and lights along a curve

Usage:
  scatter [flags] <command> [args]

Commands:
  layout <scene>              Print per-profile placement results
  preview <scene> <out.png>   Render a top-down PNG of the layout
  watch <scene>               Recompute every time the scene file is saved
  convert <in> <out>          Re-encode a scene (.yaml/.yml/.toml)

Flags:
  -config <path>      Config file
  -debug              Debug logging
  -max-instances <n>  Per-profile instance cap (0 = unlimited)
  -width, -height     Preview size in pixels

Examples:
  scatter layout road.yaml
  scatter -width 2048 -height 1024 preview road.yaml road.png
  scatter convert road.yaml road.toml`)
}
