package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listCmd manages the caller's bookmarks and read list.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Bookmarks and read list",
}

func listEndpoint(cmd *cobra.Command) string {
	if read, _ := cmd.Flags().GetBool("read"); read {
		return "read"
	}
	return "bookmarks"
}

func toggleList(op string) *cobra.Command {
	return &cobra.Command{
		Use:   op + " [manga-id]",
		Short: op + " a manga id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.requireLogin(); err != nil {
				return err
			}
			list := listEndpoint(cmd)
			res, err := c.do("POST", fmt.Sprintf("/api/%s/%s", list, op), map[string]string{"mangaId": args[0]})
			if err != nil {
				return err
			}
			if err := check("Update", res); err != nil {
				return err
			}
			printSuccess(res.Message)
			return nil
		},
	}
}

var listShowCmd = &cobra.Command{
	Use:   "show [username]",
	Short: "Show a user's list (defaults to you)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		who := c.user
		if len(args) == 1 {
			who = args[0]
		}
		if who == "" {
			return c.requireLogin()
		}
		list := listEndpoint(cmd)
		res, err := c.do("GET", fmt.Sprintf("/api/%s/%s", list, who), nil)
		if err != nil {
			return err
		}
		if err := check("Lookup", res); err != nil {
			return err
		}
		var out struct {
			Bookmarks []string `json:"bookmarks"`
			Read      []string `json:"read"`
		}
		res.decode(&out)
		ids := out.Bookmarks
		if list == "read" {
			ids = out.Read
		}
		if len(ids) == 0 {
			fmt.Printf("%s has no %s entries.\n", who, list)
			return nil
		}
		fmt.Printf("%s (%d):\n", list, len(ids))
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
		return nil
	},
}

func init() {
	add, remove := toggleList("add"), toggleList("remove")
	for _, cmd := range []*cobra.Command{add, remove, listShowCmd} {
		cmd.Flags().Bool("read", false, "Use the read list instead of bookmarks")
	}
	listCmd.AddCommand(add, remove, listShowCmd)
}
