package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the command line and releases what the command opened, also
// when it failed.
func Execute(ctx context.Context) error {
	a := newApp()
	defer a.close()
	return newRoot(a).ExecuteContext(ctx)
}

func newRoot(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "ocdrive",
		Short:             "ownCloud command line client",
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	if err := a.loader.RegisterFlags(cmd.PersistentFlags(), "", &a.cfg); err != nil {
		panic(err)
	}
	cmd.AddCommand(
		newAccountCmd(a),
		newLsCmd(a),
		newMkdirCmd(a),
		newMvCmd(a),
		newCpCmd(a),
		newRmCmd(a),
		newUploadCmd(a),
		newDownloadCmd(a),
		newShareCmd(a),
		newShareesCmd(a),
		newCapabilitiesCmd(a),
		newStatusCmd(a),
		newWatchCmd(a),
		NewVersion(),
	)
	return cmd
}
