package command

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nodacore/clusterkeeper/internal/cli/output"
)

// nodeRow is a cluster member as rendered by the table/JSON/YAML formatters.
type nodeRow struct {
	ID         int32  `json:"id"`
	URL        string `json:"url"`
	Partitions string `json:"partitions"`
	Available  bool   `json:"available"`
}

// NodeCommand groups the cluster-membership subcommands.
func NodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "node",
		Usage: "manage cluster membership",
		Subcommands: []*cli.Command{
			nodeListCommand(),
			nodeAddCommand(),
			nodeRemoveCommand(),
			nodeMarkAvailableCommand(),
			nodeMarkUnavailableCommand(),
			nodeStatusCommand(),
		},
	}
}

func nodeListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list cluster members from the last published view",
		Action: func(c *cli.Context) error {
			client, err := Client(c)
			if err != nil {
				return err
			}

			resp, err := client.Execute("list")
			if err != nil {
				return err
			}

			data, _ := resp.Data.(map[string]any)
			raw, _ := data["nodes"].([]any)

			rows := make([]nodeRow, 0, len(raw))
			for _, item := range raw {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				rows = append(rows, toNodeRow(m))
			}

			flags := ParseGlobalFlags(c)
			formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
			return formatter.Format(os.Stdout, rows)
		},
	}
}

func nodeStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "show the Cluster Manager's session state",
		Action: func(c *cli.Context) error {
			client, err := Client(c)
			if err != nil {
				return err
			}

			resp, err := client.Execute("status")
			if err != nil {
				return err
			}

			flags := ParseGlobalFlags(c)
			formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
			return formatter.Format(os.Stdout, resp.Data)
		},
	}
}

func nodeAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "register a new cluster member",
		ArgsUsage: "<id> <url> [partition...]",
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 2 {
				return fmt.Errorf("usage: node add <id> <url> [partition...]")
			}

			client, err := Client(c)
			if err != nil {
				return err
			}

			_, err = client.Execute("add-node", c.Args().Slice()...)
			return err
		},
	}
}

func nodeRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "deregister a cluster member",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("usage: node remove <id>")
			}

			client, err := Client(c)
			if err != nil {
				return err
			}

			_, err = client.Execute("remove-node", c.Args().First())
			return err
		},
	}
}

func nodeMarkAvailableCommand() *cli.Command {
	return &cli.Command{
		Name:      "mark-available",
		Usage:     "mark a member as accepting traffic",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("usage: node mark-available <id>")
			}

			client, err := Client(c)
			if err != nil {
				return err
			}

			_, err = client.Execute("mark-available", c.Args().First())
			return err
		},
	}
}

func nodeMarkUnavailableCommand() *cli.Command {
	return &cli.Command{
		Name:      "mark-unavailable",
		Usage:     "mark a member as not accepting traffic",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("usage: node mark-unavailable <id>")
			}

			client, err := Client(c)
			if err != nil {
				return err
			}

			_, err = client.Execute("mark-unavailable", c.Args().First())
			return err
		},
	}
}

func toNodeRow(m map[string]any) nodeRow {
	var row nodeRow
	if id, ok := m["id"].(float64); ok {
		row.ID = int32(id)
	}
	row.URL, _ = m["url"].(string)
	row.Available, _ = m["available"].(bool)

	if parts, ok := m["partitions"].([]any); ok {
		strs := make([]string, 0, len(parts))
		for _, p := range parts {
			if f, ok := p.(float64); ok {
				strs = append(strs, strconv.FormatInt(int64(f), 10))
			}
		}
		row.Partitions = strings.Join(strs, ",")
	}
	return row
}
