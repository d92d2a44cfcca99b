package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/Hjmep/UniDrive/internal/auth"
	"github.com/Hjmep/UniDrive/internal/coordinator"
	"github.com/Hjmep/UniDrive/internal/drive"
	"github.com/Hjmep/UniDrive/internal/nav"
	"github.com/Hjmep/UniDrive/internal/store"
	"github.com/Hjmep/UniDrive/internal/tree"
)

func newBrowseCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		accounts     int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Link accounts and print each account's folder tree",
		Long: `Link one or more Google Drive accounts through the OAuth consent flow
and print the classified folder tree of every linked account: top-level
folders with their contents, followed by the loose files that have no
parent folder.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("both --client-id and --client-secret are required")
			}

			ctx := context.Background()
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			gate := auth.NewOAuthGate(clientID, clientSecret, logger)
			st := store.New(logger)
			navs := nav.NewRegistry(logger)
			factory := func(ctx context.Context, email string, creds auth.Credentials) (coordinator.DriveService, error) {
				ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.AccessToken})
				return drive.NewClient(ctx, email, ts)
			}
			coord := coordinator.New(st, navs, gate, factory, logger, nil)

			in := bufio.NewReader(cmd.InOrStdin())
			for i := 0; i < accounts; i++ {
				creds, err := linkAccount(ctx, gate, cmd, in)
				if err != nil {
					return err
				}
				if _, err := coord.Link(ctx, *creds); err != nil {
					return fmt.Errorf("failed to load account files: %w", err)
				}
			}

			for _, acct := range st.Accounts() {
				printAccount(cmd, coord, acct.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	cmd.Flags().IntVar(&accounts, "accounts", 1, "number of accounts to link")
	return cmd
}

// linkAccount runs the interactive consent flow for one account.
func linkAccount(ctx context.Context, gate *auth.OAuthGate, cmd *cobra.Command, in *bufio.Reader) (*auth.Credentials, error) {
	cmd.Printf("Visit the following URL and paste the authorization code:\n%s\n> ", gate.AuthCodeURL())

	line, err := in.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}

	creds, err := gate.Exchange(ctx, strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	return creds, nil
}

// printAccount writes one account's classified tree to the command's
// output. Accounts with an unreadable identity are suppressed rather
// than aborting the listing.
func printAccount(cmd *cobra.Command, coord *coordinator.Coordinator, accountID int64) {
	who, err := coord.Identity(accountID)
	if err != nil {
		return
	}

	cmd.Printf("\n%s (%s)\n", who.Name, who.Email)

	n, err := coord.Navigator(accountID)
	if err != nil {
		return
	}

	c := n.Classification()
	for _, node := range c.TopLevelFolders {
		printFolder(cmd, n, node, 1)
	}
	for _, f := range c.LooseFiles {
		cmd.Printf("  %s\n", f.Name)
	}
}

func printFolder(cmd *cobra.Command, n *nav.Navigator, node *tree.FolderNode, depth int) {
	indent := strings.Repeat("  ", depth)
	cmd.Printf("%s%s/\n", indent, node.Folder.Name)

	children, err := n.Children(node.Folder.ID)
	if err != nil {
		return
	}

	c := n.Classification()
	for _, child := range children {
		if childNode, ok := c.FolderIndex[child.ID]; ok && child.IsFolder() {
			printFolder(cmd, n, childNode, depth+1)
			continue
		}
		cmd.Printf("%s  %s\n", indent, child.Name)
	}
}
