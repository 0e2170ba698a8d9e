package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ecrypto/chatclient/internal/config"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List chat profiles",
	Long: `List built-in and custom chat profiles.

Custom profiles are read from ~/.chatclient/profiles.json. A custom profile
with the same name as a built-in one replaces it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		profiles, err := config.ListProfiles()
		if err != nil {
			return err
		}

		active := profileFlag
		if active == "" {
			active = cfg.Profile
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tNAME\tENDPOINT\tINPUT\tDESCRIPTION")
		for _, p := range profiles {
			marker := ""
			if p.Name == active {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, p.Name, p.EndpointURL, inputKind(p), truncate(p.Description, 50))
		}
		return w.Flush()
	},
}

// profile add flags
var (
	profileURLFlag         string
	profileOptionURLFlag   string
	profileTitleFlag       string
	profileDescriptionFlag string
	profileErrorFlag       string
	profileOptionsFlag     []string
	profileNoTextFlag      bool
)

var profilesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom profile",
	Example: `  chatclient profiles add local --url http://127.0.0.1:9000/api/chat
  chatclient profiles add btc --url http://10.0.0.5:8000/option/ --no-text \
    --option "Cual es tu mejor prediccion en este momento?"`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesAdd,
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a custom profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesDelete,
}

func init() {
	profilesAddCmd.Flags().StringVar(&profileURLFlag, "url", "", "Endpoint for free-text messages (required)")
	profilesAddCmd.Flags().StringVar(&profileOptionURLFlag, "option-url", "", "Endpoint for preset options (defaults to --url)")
	profilesAddCmd.Flags().StringVar(&profileTitleFlag, "title", "", "Title shown in the chat header")
	profilesAddCmd.Flags().StringVar(&profileDescriptionFlag, "description", "", "Text shown on the home screen")
	profilesAddCmd.Flags().StringVar(&profileErrorFlag, "error-message", "", "Reply shown when a request fails")
	profilesAddCmd.Flags().StringArrayVar(&profileOptionsFlag, "option", nil, "Preset option (repeatable)")
	profilesAddCmd.Flags().BoolVar(&profileNoTextFlag, "no-text", false, "Only allow preset options")

	profilesCmd.AddCommand(profilesAddCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
}

func runProfilesAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	title := strings.TrimSpace(profileTitleFlag)
	if title == "" {
		title = name
	}

	profile := config.Profile{
		Name:              name,
		Title:             title,
		Description:       strings.TrimSpace(profileDescriptionFlag),
		EndpointURL:       strings.TrimSpace(profileURLFlag),
		OptionEndpointURL: strings.TrimSpace(profileOptionURLFlag),
		ErrorMessage:      strings.TrimSpace(profileErrorFlag),
		FreeText:          !profileNoTextFlag,
		Options:           profileOptionsFlag,
	}

	if err := config.AddProfile(profile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' created.\n", name)
	return nil
}

func runProfilesDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := config.DeleteProfile(name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' deleted.\n", name)
	return nil
}

func inputKind(p config.Profile) string {
	switch {
	case p.FreeText && len(p.Options) > 0:
		return fmt.Sprintf("text+%d options", len(p.Options))
	case p.FreeText:
		return "text"
	default:
		return fmt.Sprintf("%d options", len(p.Options))
	}
}

// truncate shortens s to max runes, adding an ellipsis when cut
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
