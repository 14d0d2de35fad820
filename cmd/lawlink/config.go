package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gurmittoor/hyperlinklaw/internal/api"
	"github.com/Gurmittoor/hyperlinklaw/internal/config"
	"github.com/Gurmittoor/hyperlinklaw/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		return api.Output(mgr.Get())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long:  `Writes a default config file to the given path, or to ~/.lawlink/config.yaml.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			if h.ConfigExists() {
				return fmt.Errorf("config already exists at %s", h.ConfigPath())
			}
			path = h.ConfigPath()
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
