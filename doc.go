// File: lixenwraith/execution/doc.go

// Package execution binds command-line arguments and property maps to option
// fields declared in struct tags, and runs a unit of work once the options are
// in place.
//
// Features:
//   - Option groups: package-level structs registered in a process-wide catalog
//   - Canonical names, comma-separated aliases and required options
//   - Classpath-style discovery over directories and zip archives
//   - Type coercion for scalars, slices, arrays, durations, IPs and URLs
//   - Aggregated validation: every missing option is reported, never just the first
//   - Constraint checks through `validate` tags
//   - A run wrapper that contains every failure of the wrapped work
//
// Quick Start:
//
//	type Options struct {
//	    Port  int      `option:"port,required" gloss:"Port to listen on"`
//	    Hosts []string `option:"hosts" alt:"host" gloss:"Upstream hosts"`
//	}
//
//	var Opts Options
//
//	func init() { execution.MustRegister(&Opts) }
//
//	func main() {
//	    execution.ExecArgs(func() error {
//	        return serve(Opts.Port, Opts.Hosts)
//	    }, os.Args[1:], true)
//	}
//
//	$ app -port 8080 -host a,b,c
//
// Run Phases:
//  1. Bootstrap: bind option_classes, threads, host and classpath
//  2. Discovery: the explicit class list, or every class on the classpath
//  3. Bind: assign every property to its option, in order
//  4. Validate: report every unfulfilled required option and constraint
//  5. Logging: configure the process-wide tracker from log.* options
//  6. Run: call the work; any error or panic becomes exit status 1
//
// Property Precedence (highest to lowest):
//  1. Programmatic properties (WithProperties)
//  2. Command-line arguments (-port 9090)
//  3. Environment variables (APP_PORT=9090)
//  4. Property files (-props app.toml)
//
// Concurrency:
// Binding writes process-wide storage without locks. All phases complete
// before the work runs; concurrent runs over the same groups are not
// supported.
package execution
