package agentcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unipad/unipad-agent/pkg/agent"
)

func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	dir, err := os.UserConfigDir()
	if err != nil {
		return err
	}
	cmd := NewRootCmd(filepath.Join(dir, "unipad"))
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

type agentProvider func() *agent.Agent

func NewRootCmd(configDir string) *cobra.Command {
	cfg := agent.Config{
		DataDir:   filepath.Join(configDir, "data"),
		PadConfig: filepath.Join(configDir, "pads.yml"),
		Slots:     4,
	}
	agentCmd := &cobra.Command{
		Use:   "unipad-agent",
		Short: "Unipad Agent",
		Long:  `The Unipad Agent normalizes input from Bluetooth/USB game controllers into one canonical gamepad state per connection slot.`,
	}
	var a *agent.Agent
	agentProvider := func() *agent.Agent {
		return a
	}
	agentCmd.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "data directory")
	agentCmd.PersistentFlags().StringVar(&cfg.PadConfig, "pad-config", cfg.PadConfig, "controller identification config file")
	agentCmd.PersistentFlags().IntVar(&cfg.Slots, "slots", cfg.Slots, "connection slot table size")
	agentCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		a, err = agent.NewAgent(cfg)
		return err
	}
	agentCmd.AddCommand(NewRun(agentProvider))
	agentCmd.AddCommand(NewListDevices(agentProvider))
	return agentCmd
}

func NewRun(agent agentProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the Unipad Agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return agent().Run(cmd.Context())
		},
	}
}

func NewListDevices(agent agentProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "list-devices",
		Short: "List controllers the agent has identified",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := agent().Pad().ListDevices()
			if err != nil {
				return err
			}
			jsonB, err := json.MarshalIndent(devices, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonB))
			return nil
		},
	}
}
