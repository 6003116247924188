package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/BurntSushi/toml"
)

func main() {
	cli := parseArgs(os.Args[1:])

	cfg, err := loadConfig(cli.CfgFile)
	checkf(err, "failed to load configuration")

	logmods := cfg.Log.Modules
	if cli.Log != nil {
		logmods = cli.Log
	}
	checkf(enableLogModules(logmods), "invalid log modules")

	switch cli.mode {
	case runMode:
		os.Exit(runMain(cli.Run, cfg))
	case fetchMode:
		fetchMain(cli.Fetch, cfg)
	case traceMode:
		os.Exit(traceMain(cli.Trace, cfg))
	case configMode:
		configMain(cli.Config, cli.CfgFile, cfg)
	case versionMode:
		fmt.Println("w65816", version())
	}
}

func configMain(args ShowConfig, path string, cfg Config) {
	if args.Save {
		checkf(saveConfig(path, cfg), "failed to save configuration")
	}
	checkf(toml.NewEncoder(os.Stdout).Encode(cfg), "failed to encode configuration")
}

func version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "(devel)"
	}
	return bi.Main.Version
}
