package cmd

import (
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ocdrive/ocdrive/pkg/services"
)

func (a *app) files(cmd *cobra.Command) (*services.FileService, error) {
	client, err := a.client(cmd.Context())
	if err != nil {
		return nil, err
	}
	return services.NewFileService(client, &a.cfg.Remote), nil
}

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a remote folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "/"
			if len(args) == 1 {
				dir = args[0]
			}
			svc, err := a.files(cmd)
			if err != nil {
				return err
			}
			files, err := svc.List(cmd.Context(), dir)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				name, size := f.FileName, formatSize(f.Length)
				if f.IsFolder() {
					name += "/"
					size = "-"
				}
				modified := "-"
				if f.ModificationTimestamp > 0 {
					modified = formatTime(time.UnixMilli(f.ModificationTimestamp))
				}
				rows = append(rows, []string{name, size, modified, f.Etag})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Size", "Modified", "ETag"}, rows))
			return nil
		},
	}
}

func newMkdirCmd(a *app) *cobra.Command {
	var parents bool
	cmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a remote folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.files(cmd)
			if err != nil {
				return err
			}
			if err := svc.CreateFolder(cmd.Context(), args[0], parents); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "created %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "Create missing parent folders")
	return cmd
}

func newTransferCmd(a *app, use, short, verb string, run func(*services.FileService, *cobra.Command, string, string, bool) error) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   use + " <source> <target>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.files(cmd)
			if err != nil {
				return err
			}
			if err := run(svc, cmd, args[0], args[1], overwrite); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "%s %s to %s", verb, args[0], args[1])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&overwrite, "force", "f", false, "Overwrite an existing target")
	return cmd
}

func newMvCmd(a *app) *cobra.Command {
	return newTransferCmd(a, "mv", "Move or rename a remote file or folder", "moved",
		func(svc *services.FileService, cmd *cobra.Command, src, dst string, overwrite bool) error {
			return svc.Move(cmd.Context(), src, dst, overwrite)
		})
}

func newCpCmd(a *app) *cobra.Command {
	return newTransferCmd(a, "cp", "Copy a remote file or folder", "copied",
		func(svc *services.FileService, cmd *cobra.Command, src, dst string, overwrite bool) error {
			return svc.Copy(cmd.Context(), src, dst, overwrite)
		})
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>...",
		Short: "Remove remote files or folders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.files(cmd)
			if err != nil {
				return err
			}
			if err := svc.Remove(cmd.Context(), args...); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "removed %d item(s)", len(args))
			return nil
		},
	}
}

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <local-file> [remote-path]",
		Short: "Upload a local file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "/" + filepath.Base(args[0])
			if len(args) == 2 {
				target = args[1]
			}
			svc, err := a.files(cmd)
			if err != nil {
				return err
			}
			f, err := svc.Upload(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "uploaded %s (%s)", f.RemotePath, formatSize(f.Length))
			return nil
		},
	}
}

func newDownloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "download <remote-path> [local-path]",
		Short: "Download a remote file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path.Base(args[0])
			if len(args) == 2 {
				target = args[1]
			}
			svc, err := a.files(cmd)
			if err != nil {
				return err
			}
			n, err := svc.Download(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "downloaded %s (%s)", target, formatSize(n))
			return nil
		},
	}
}
