package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"w65816/emu/log"
)

type mode byte

const (
	runMode     mode = iota // Run the conformance suite
	fetchMode               // Download fixture files
	traceMode               // Replay a single test
	configMode              // Show or save configuration
	versionMode             // Show version
)

type (
	CLI struct {
		Run     Run        `cmd:"" help:"Run the SingleStepTests 65816 suite. (default command)" default:"withargs"`
		Fetch   Fetch      `cmd:"" help:"Download the fixture files."`
		Trace   Trace      `cmd:"" help:"Replay a single test with the execution tracer."`
		Config  ShowConfig `cmd:"" help:"Show the effective configuration."`
		Version Version    `cmd:"" help:"Show w65816 version."`

		Log     logModules `help:"${log_help}" placeholder:"mod0,mod1,..."`
		CfgFile string     `name:"config-file" help:"${config_help}" type:"path" placeholder:"FILE"`

		mode mode
	}

	Run struct {
		Dir     string     `name:"dir" help:"${dir_help}" type:"path" placeholder:"DIR"`
		Opcodes opcodeList `name:"opcodes" help:"${opcodes_help}" placeholder:"00,a9,e0-ef"`
		Mode    string     `name:"mode" help:"Modes to run: e(mulation), n(ative) or both." enum:"e,n,both" default:"both"`
		Strict  bool       `name:"strict" help:"Also check VP, E, M, X and ML on each cycle."`
		Jobs    int        `name:"jobs" short:"j" help:"Number of files run in parallel. (default: number of CPUs)"`
		MaxFail int        `name:"max-fail" help:"Maximum number of failed tests reported per file. (default: all)"`
		JSON    string     `name:"json" help:"Write a JSON report to FILE." type:"path" placeholder:"FILE"`
		Verbose bool       `name:"verbose" short:"v" help:"List the mismatches of failed tests."`
	}

	Fetch struct {
		Dir  string `name:"dir" help:"${dir_help}" type:"path" placeholder:"DIR"`
		Gzip bool   `name:"gzip" help:"Compress the files as they're downloaded."`
		Jobs int    `name:"jobs" short:"j" help:"Number of concurrent downloads. (default: number of CPUs)"`
	}

	Trace struct {
		File   string `arg:"" name:"file" help:"Fixture file (.json or .json.gz)." type:"existingfile"`
		Test   string `name:"test" help:"Name of the test to replay. (default: first test of the file)"`
		Strict bool   `name:"strict" help:"Also check VP, E, M, X and ML on each cycle."`
		Dump   bool   `name:"dump" help:"Dump the initial and final states, and the result."`
	}

	ShowConfig struct {
		Save bool `name:"save" help:"Save it to the configuration file."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"log_help":     "Enable logging for specified modules.",
	"config_help":  "Configuration file. (default: config.toml in the user configuration directory)",
	"dir_help":     "Directory of the fixture files.",
	"opcodes_help": "Comma-separated list of opcodes, or ranges of opcodes, in hex. (default: all)",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("w65816"),
		kong.Description("Cycle-accurate 65C816 core, checked against the SingleStepTests suite."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	cmd, _, _ := strings.Cut(ctx.Command(), " ")
	switch cmd {
	case "fetch":
		cfg.mode = fetchMode
	case "trace":
		cfg.mode = traceMode
	case "config":
		cfg.mode = configMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	cmd := ctx.Command()
	if cmd == "" || strings.HasPrefix(cmd, "run") || strings.HasPrefix(cmd, "trace") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

// logModules is a list of log module names.
type logModules []string

// Decode decodes a comma-separated list of module names.
//
// Implements kong.MapperValue interface.
func (lm *logModules) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	names := strings.Split(tok.Value.(string), ",")
	if _, _, err := parseLogModules(names); err != nil {
		return err
	}
	*lm = names
	return nil
}

// parseLogModules returns the mask of the named modules. nolog reports
// whether all logging is to be disabled.
func parseLogModules(names []string) (mask log.ModuleMask, nolog bool, err error) {
	allLogs := false

	for _, v := range names {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %s", v)
			}
			mask |= mod.Mask()
		}
	}

	if nolog {
		if allLogs {
			return 0, false, fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if mask != 0 {
			return 0, false, fmt.Errorf("cannot combine 'no' with other log modules")
		}
		return 0, true, nil
	}

	if allLogs {
		mask = log.ModuleMaskAll
	}
	return mask, false, nil
}

// enableLogModules enables debug logs for the named modules.
func enableLogModules(names []string) error {
	mask, nolog, err := parseLogModules(names)
	if err != nil {
		return err
	}
	if nolog {
		log.Disable()
		return nil
	}

	log.EnableDebugModules(mask)
	if mask != 0 {
		log.SetDebugOutput()
	}
	return nil
}

// opcodeList is a list of opcodes.
type opcodeList []uint8

// Decode decodes a comma-separated list of hex opcodes or opcode ranges
// ("00,a9,e0-ef").
//
// Implements kong.MapperValue interface.
func (l *opcodeList) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	ops, err := parseOpcodes(tok.Value.(string))
	if err != nil {
		return err
	}
	*l = ops
	return nil
}

func parseOpcodes(s string) ([]uint8, error) {
	parse := func(s string) (uint8, error) {
		v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid opcode %q", s)
		}
		return uint8(v), nil
	}

	var ops []uint8
	for _, tok := range strings.Split(s, ",") {
		lo, hi, isRange := strings.Cut(tok, "-")
		first, err := parse(lo)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = parse(hi); err != nil {
				return nil, err
			}
			if last < first {
				return nil, fmt.Errorf("invalid opcode range %q", tok)
			}
		}
		for op := int(first); op <= int(last); op++ {
			ops = append(ops, uint8(op))
		}
	}
	return ops, nil
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
