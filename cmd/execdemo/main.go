// File: lixenwraith/execution/cmd/execdemo/main.go
// Demo program for the execution package
package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/lixenwraith/execution"
)

// ServerOptions represents the options of a small server
type ServerOptions struct {
	Port    int           `option:"port,required" gloss:"Port to listen on" validate:"gt=0,lt=65536"`
	Hosts   []string      `option:"hosts" alt:"upstream" gloss:"Upstream hosts"`
	Bind    net.IP        `option:"bind" gloss:"Address to bind"`
	Timeout time.Duration `option:"timeout" gloss:"Request timeout"`
	Verbose bool          `option:"verbose" alt:"v" gloss:"Print the bound options"`
}

// DemoOptions controls what the demo does besides serving
type DemoOptions struct {
	Usage  bool   `option:"usage" gloss:"Print the option table and exit"`
	Export string `option:"export" gloss:"Write a classpath directory exposing only this demo's classes"`
}

var (
	Server = ServerOptions{
		Bind:    net.IPv4(127, 0, 0, 1),
		Timeout: 30 * time.Second,
	}
	Demo DemoOptions

	serverClass = execution.MustRegister(&Server)
	demoClass   = execution.MustRegister(&Demo)
)

func main() {
	// Usage must not depend on required options being present
	if props, err := execution.ArgsToProperties(os.Args[1:]); err == nil {
		if usage, _ := props.Bool("usage"); usage {
			if err := execution.Usage(os.Stdout, []*execution.Class{serverClass, demoClass}); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}

	execution.NewBuilder().
		WithPropertySearch(execution.DefaultPropertySearch("execdemo")).
		WithEnvPrefix("EXECDEMO").
		WithExit(true).
		Run(run)
}

func run() error {
	if Demo.Export != "" {
		if err := execution.WriteClasspath(Demo.Export, serverClass, demoClass); err != nil {
			return err
		}
		fmt.Printf("classpath written to %s; set %s=%s to use it\n", Demo.Export, execution.ClasspathEnv, Demo.Export)
		return nil
	}

	if len(Server.Hosts) == 0 {
		return errors.New("no upstream hosts; pass -hosts a,b,c")
	}

	execution.Log().Info().
		Int("port", Server.Port).
		Strs("hosts", Server.Hosts).
		Str("bind", Server.Bind.String()).
		Dur("timeout", Server.Timeout).
		Int("threads", execution.Settings.Threads).
		Str("host", execution.Settings.Host).
		Msg("server options bound")

	if Server.Verbose {
		reg, err := execution.BuildRegistry([]*execution.Class{serverClass})
		if err != nil {
			return err
		}
		return reg.Dump(os.Stdout)
	}
	return nil
}
