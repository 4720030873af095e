// Package config loads ctxsel configuration.
//
// Settings come from, in increasing precedence: built-in defaults, an
// optional ctxsel.yaml, CTXSEL_ environment variables, and command-line
// flags bound by the CLI.
//
// # Configuration File Structure
//
//	strict_mode: false
//	server_side: false
//	max_flush_passes: 50
//	log:
//	  level: info
//	  format: text
//	inspect:
//	  addr: ":7070"
//	metrics:
//	  namespace: ctxsel
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	root := vango.NewRoot(cfg.RootOptions(cfg.Logger(os.Stderr))...)
package config
