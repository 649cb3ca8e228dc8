// Package command provides CLI command definitions for clusterkeeper-cli.
//
// It uses urfave/cli/v2 for command parsing.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nodacore/clusterkeeper/internal/cli/connection"
	"github.com/nodacore/clusterkeeper/internal/server/config"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "clusterkeeper-cli",
		Usage:   "cluster membership coordination core command-line tool",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			NodeCommand(),
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "socket",
			Aliases: []string{"s"},
			Usage:   "control socket path",
			EnvVars: []string{"CLUSTERKEEPER_SOCKET"},
			Value:   config.DefaultSocketPath,
		},
		&cli.StringFlag{
			Name:    "token-file",
			Aliases: []string{"t"},
			Usage:   "path to the control socket bearer token",
			EnvVars: []string{"CLUSTERKEEPER_TOKEN_FILE"},
			Value:   config.DefaultTokenPath,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "show wide output (more columns)",
		},
	}
}

// GlobalFlags carries the parsed global flags.
type GlobalFlags struct {
	Socket    string
	TokenFile string
	Output    string
	Wide      bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Socket:    c.String("socket"),
		TokenFile: c.String("token-file"),
		Output:    c.String("output"),
		Wide:      c.Bool("wide"),
	}
}

// Client builds a SocketClient from the global flags, reading the bearer
// token from TokenFile.
func Client(c *cli.Context) (*connection.SocketClient, error) {
	flags := ParseGlobalFlags(c)

	token, err := os.ReadFile(flags.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file %s: %w", flags.TokenFile, err)
	}

	return connection.NewSocketClient(flags.Socket, trimToken(string(token))), nil
}

func trimToken(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
