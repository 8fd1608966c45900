package cli

import "flag"

type cliOptions struct {
	configPath  string
	check       bool
	watch       bool
	verbose     bool
	version     bool
	metricsFile string
	args        []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("hljsgen", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default: hljsgen.toml or scripts/hljsgen.toml when present)")
	fs.BoolVar(&opts.check, "check", false, "Report generated files that are out of date without writing them")
	fs.BoolVar(&opts.watch, "watch", false, "Regenerate when the languages directory, externals module or config changes")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this path on exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
