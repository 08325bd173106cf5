package cli

import (
	"github.com/spf13/cobra"

	"mcpsync/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPathFlag
	if path == "" {
		var err error
		path, err = config.ConfigPath()
		if err != nil {
			return err
		}
	}

	if err := config.WriteStarter(path); err != nil {
		return err
	}

	cmd.Printf("%s %s\n", SuccessStyle.Render("created"), path)
	cmd.Println("Declare policies there, then run: mcpsync plan")
	return nil
}
