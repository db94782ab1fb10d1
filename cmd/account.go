package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/models"
	"github.com/ocdrive/ocdrive/pkg/services"
)

func newAccountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage stored accounts",
	}
	cmd.AddCommand(
		newAccountAddCmd(a),
		newAccountListCmd(a),
		newAccountRemoveCmd(a),
		newAccountPasswordCmd(a),
	)
	return cmd
}

type secretFlags struct {
	token         string
	passwordStdin bool
}

func (f *secretFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.token, "token", "", "Bearer token instead of a password")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "Read the password from stdin")
}

func (f *secretFlags) credentials(cmd *cobra.Command, username string) (models.Credentials, error) {
	if f.token != "" {
		return models.Credentials{Kind: models.CredentialsBearer, Username: username, Secret: f.token}, nil
	}
	password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), f.passwordStdin)
	if err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{Kind: models.CredentialsBasic, Username: username, Secret: password}, nil
}

func readPassword(in io.Reader, prompt io.Writer, fromStdin bool) (string, error) {
	if !fromStdin {
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprint(prompt, "Password: ")
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(prompt)
			if err != nil {
				return "", errors.Wrap(err, "read password")
			}
			return string(b), nil
		}
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "read password")
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password")
	}
	return password, nil
}

func newAccountAddCmd(a *app) *cobra.Command {
	var (
		username string
		noVerify bool
		secret   secretFlags
	)
	cmd := &cobra.Command{
		Use:   "add <server-url>",
		Short: "Store an account after checking it against the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			serverURL := strings.TrimSuffix(args[0], "/")
			creds, err := secret.credentials(cmd, username)
			if err != nil {
				return err
			}
			account := &models.Account{
				Name:        models.AccountName(username, serverURL),
				Type:        models.AccountType,
				ServerURL:   serverURL,
				Credentials: creds,
			}
			if !noVerify {
				client, err := remote.NewClient(account, &a.cfg.Remote)
				if err != nil {
					return err
				}
				if _, err := services.NewServerService(client).Status(ctx); err != nil {
					return err
				}
				c, err := a.cache(ctx)
				if err != nil {
					return err
				}
				if _, err := services.NewCapabilityService(client, c, a.cfg.Cache.TTL).Refresh(ctx); err != nil {
					return err
				}
			}
			svc, err := a.accounts()
			if err != nil {
				return err
			}
			stored, err := svc.Add(ctx, account)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "account %s added", stored.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Store the account without contacting the server")
	secret.register(cmd)
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newAccountListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.accounts()
			if err != nil {
				return err
			}
			accounts, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(accounts))
			for _, acc := range accounts {
				rows = append(rows, []string{
					acc.Name,
					acc.ServerURL,
					string(acc.Credentials.Kind),
					formatTime(acc.CreatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Server", "Auth", "Added"}, rows))
			return nil
		},
	}
}

func newAccountRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a stored account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.accounts()
			if err != nil {
				return err
			}
			if err := svc.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "account %s removed", args[0])
			return nil
		},
	}
}

func newAccountPasswordCmd(a *app) *cobra.Command {
	var secret secretFlags
	cmd := &cobra.Command{
		Use:   "password <name>",
		Short: "Replace the credentials of a stored account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.accounts()
			if err != nil {
				return err
			}
			creds, err := secret.credentials(cmd, "")
			if err != nil {
				return err
			}
			account, err := svc.UpdateCredentials(cmd.Context(), args[0], creds)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "credentials of %s updated", account.Name)
			return nil
		},
	}
	secret.register(cmd)
	return cmd
}
