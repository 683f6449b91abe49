package cli

import (
	flag "github.com/spf13/pflag"

	"lexidex/internal/config"
)

// cliFlags holds the process-level flags accepted before the REPL starts.
type cliFlags struct {
	help             bool
	configPath       string
	censoredOverride string
}

// configOverride carries CLI-supplied tuning values that take precedence
// over both defaults and the project config file.
type configOverride struct {
	queueCapacity int
	warnSecs      float64
	workers       int
	buckets       int
	logPath       string
}

// parseFlags parses args (excluding argv[0]) and returns the flags, the
// optional positional censored-word-list path, and any tuning overrides.
func parseFlags(args []string) (cliFlags, string, configOverride, error) {
	fs := flag.NewFlagSet("lexidex", flag.ContinueOnError)
	fs.SetOutput(discardWriter{})

	var f cliFlags
	var o configOverride

	fs.BoolVarP(&f.help, "help", "h", false, "show usage and exit")
	fs.StringVar(&f.configPath, "config", "", "path to a .lexidex.json config file")
	fs.StringVar(&f.censoredOverride, "censored", "", "path to the censored-word list (overrides the positional argument)")
	fs.IntVar(&o.queueCapacity, "queue-capacity", 0, "bounded job queue capacity")
	fs.Float64Var(&o.warnSecs, "queue-warn-secs", 0, "seconds a push may block before a backpressure warning is logged")
	fs.IntVar(&o.workers, "workers", 0, "number of indexing worker goroutines")
	fs.IntVar(&o.buckets, "buckets", 0, "initial hash table bucket count")
	fs.StringVar(&o.logPath, "activity-log", "", "path to the activity log file")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			f.help = true
			return f, "", o, nil
		}
		return cliFlags{}, "", configOverride{}, err
	}

	var censoredPathArg string
	if rest := fs.Args(); len(rest) > 0 {
		censoredPathArg = rest[0]
	}

	return f, censoredPathArg, o, nil
}

// applyOverrides layers CLI-supplied values (the highest-precedence tier,
// per the teacher's config.go) on top of cfg.
func applyOverrides(cfg config.Config, o configOverride) config.Config {
	if o.queueCapacity != 0 {
		cfg.QueueCapacity = o.queueCapacity
	}
	if o.warnSecs != 0 {
		cfg.QueueBackpressureWarnSecs = o.warnSecs
	}
	if o.workers != 0 {
		cfg.Workers = o.workers
	}
	if o.buckets != 0 {
		cfg.InitialBuckets = o.buckets
	}
	if o.logPath != "" {
		cfg.ActivityLogPath = o.logPath
	}

	return cfg
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
