package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"deskpilot/internal/creds"
	"deskpilot/internal/output"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage the encrypted credential store",
	Long: `Manage credentials that plans retrieve with get_credentials_for_service.
The store is a single AES-GCM encrypted file under the user config
directory, keyed from a master password.`,
}

func init() {
	rootCmd.AddCommand(credsCmd)
	credsCmd.AddCommand(credsSetupCmd, credsAddCmd, credsGetCmd, credsListCmd, credsRemoveCmd)
	credsGetCmd.Flags().Bool("reveal", false, "Print the password instead of a mask")
}

func openStore() (*creds.Store, error) {
	path, err := creds.DefaultPath()
	if err != nil {
		return nil, err
	}
	return creds.NewStore(path), nil
}

// unlockedStore opens the store and walks it through setup or unlock using
// the terminal prompter.
func unlockedStore() (*creds.Store, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	prompter := creds.TerminalPrompter{}
	if !store.IsInitialized() {
		master, ok := prompter.MasterPassword(true)
		if !ok {
			return nil, fmt.Errorf("setup cancelled")
		}
		if err := store.Setup(master); err != nil {
			return nil, err
		}
		return store, nil
	}
	master, ok := prompter.MasterPassword(false)
	if !ok {
		return nil, fmt.Errorf("unlock cancelled")
	}
	if err := store.Unlock(master); err != nil {
		return nil, err
	}
	return store, nil
}

var credsSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initialize the credential store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if store.IsInitialized() {
			return fmt.Errorf("credential store already exists")
		}
		master, ok := creds.TerminalPrompter{}.MasterPassword(true)
		if !ok {
			return fmt.Errorf("setup cancelled")
		}
		if err := store.Setup(master); err != nil {
			return err
		}
		fmt.Println("credential store created")
		return nil
	},
}

var credsAddCmd = &cobra.Command{
	Use:   "add <service>",
	Short: "Add or update a credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := unlockedStore()
		if err != nil {
			return err
		}
		cred, _, ok := creds.TerminalPrompter{}.ServiceCredential(args[0], "")
		if !ok {
			return fmt.Errorf("entry cancelled")
		}
		if err := store.AddOrUpdate(args[0], cred); err != nil {
			return err
		}
		fmt.Printf("stored credential for %q\n", args[0])
		return nil
	},
}

var credsGetCmd = &cobra.Command{
	Use:   "get <service>",
	Short: "Show a stored credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := unlockedStore()
		if err != nil {
			return err
		}
		cred, found, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no credential stored for %q", args[0])
		}
		reveal, _ := cmd.Flags().GetBool("reveal")
		password := "*******"
		if reveal {
			password = cred.Password
		}
		return output.Print(map[string]string{
			"service":  args[0],
			"username": cred.Username,
			"password": password,
		})
	},
}

var credsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored services",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := unlockedStore()
		if err != nil {
			return err
		}
		services, err := store.List()
		if err != nil {
			return err
		}
		return output.Print(map[string]any{"services": services})
	},
}

var credsRemoveCmd = &cobra.Command{
	Use:   "remove <service>",
	Short: "Remove a stored credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := unlockedStore()
		if err != nil {
			return err
		}
		if err := store.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("removed credential for %q\n", args[0])
		return nil
	},
}
