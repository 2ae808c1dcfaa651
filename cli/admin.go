package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	adminSearch    string
	adminRole      string
	adminDateRange string
	adminSort      string
	adminPage      int
	adminLimit     int
	adminJSON      bool
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrator commands",
	Long:  `User management and statistics. The logged in account must hold the admin role.`,
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users with filters and paging",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		res, err := c.do("POST", "/api/admin/users", map[string]interface{}{
			"filters": map[string]string{
				"search":    adminSearch,
				"status":    adminRole,
				"dateRange": adminDateRange,
			},
			"sort":  adminSort,
			"page":  adminPage,
			"limit": adminLimit,
		})
		if err != nil {
			return err
		}
		if err := check("User listing", res); err != nil {
			return err
		}
		var out struct {
			Users       []userView `json:"users"`
			TotalUsers  int        `json:"totalUsers"`
			TotalPages  int        `json:"totalPages"`
			CurrentPage int        `json:"currentPage"`
		}
		res.decode(&out)
		if adminJSON {
			printJSON(out)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tEMAIL\tSTATUS\tJOINED")
		for _, u := range out.Users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Username, u.Email, u.Status, u.CreatedAt.Local().Format("2006-01-02"))
		}
		w.Flush()
		fmt.Printf("\nPage %d of %d (%d users)\n", out.CurrentPage, out.TotalPages, out.TotalUsers)
		return nil
	},
}

var adminUserCmd = &cobra.Command{
	Use:   "user [username]",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		res, err := c.do("GET", "/api/admin/user/"+args[0], nil)
		if err != nil {
			return err
		}
		if err := check("Lookup", res); err != nil {
			return err
		}
		var out struct {
			User userView `json:"user"`
		}
		res.decode(&out)
		printUser(out.User)
		return nil
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show user statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		res, err := c.do("GET", "/api/admin/statistics", nil)
		if err != nil {
			return err
		}
		if err := check("Statistics", res); err != nil {
			return err
		}
		var out struct {
			TotalUsers        int `json:"totalUsers"`
			RegularUsers      int `json:"regularUsers"`
			MangakaUsers      int `json:"mangakaUsers"`
			AdminUsers        int `json:"adminUsers"`
			RegistrationChart []struct {
				Date  string `json:"date"`
				Count int    `json:"count"`
			} `json:"registrationChart"`
		}
		res.decode(&out)
		if adminJSON {
			printJSON(out)
			return nil
		}
		fmt.Printf("Total users: %d\n", out.TotalUsers)
		fmt.Printf("  user: %d  mangaka: %d  admin: %d\n", out.RegularUsers, out.MangakaUsers, out.AdminUsers)
		fmt.Println("\nRegistrations, last 30 days:")
		for _, d := range out.RegistrationChart {
			if d.Count == 0 {
				continue
			}
			fmt.Printf("  %s %s %d\n", d.Date, strings.Repeat("#", d.Count), d.Count)
		}
		return nil
	},
}

var adminSetRoleCmd = &cobra.Command{
	Use:   "set-role [role] [username...]",
	Short: "Change the role of one or more users",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		role, users := args[0], args[1:]
		var res *apiResponse
		if len(users) == 1 {
			res, err = c.do("POST", "/api/admin/update-user", map[string]string{"username": users[0], "status": role})
		} else {
			res, err = c.do("POST", "/api/admin/bulk-update-status", map[string]interface{}{"usernames": users, "status": role})
		}
		if err != nil {
			return err
		}
		if err := check("Role change", res); err != nil {
			return err
		}
		printSuccess(res.Message)
		return nil
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete [username...]",
	Short: "Delete one or more users",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		var res *apiResponse
		if len(args) == 1 {
			res, err = c.do("POST", "/api/admin/delete-user", map[string]string{"username": args[0]})
		} else {
			res, err = c.do("POST", "/api/admin/bulk-delete-users", map[string]interface{}{"usernames": args})
		}
		if err != nil {
			return err
		}
		if err := check("Delete", res); err != nil {
			return err
		}
		printSuccess(res.Message)
		return nil
	},
}

var adminMangaCmd = &cobra.Command{
	Use:   "manga",
	Short: "List the whole catalog, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		res, err := c.do("GET", fmt.Sprintf("/api/admin/manga?limit=%d", adminLimit), nil)
		if err != nil {
			return err
		}
		if err := check("Listing", res); err != nil {
			return err
		}
		var out struct {
			Manga []mangaView `json:"manga"`
			Count int         `json:"count"`
		}
		res.decode(&out)
		printMangaList(out.Manga)
		fmt.Printf("%d manga\n", out.Count)
		return nil
	},
}

func init() {
	f := adminUsersCmd.Flags()
	f.StringVar(&adminSearch, "search", "", "Match username or email")
	f.StringVar(&adminRole, "role", "all", "user, mangaka, admin or all")
	f.StringVar(&adminDateRange, "date-range", "", "today, week, month or year")
	f.StringVar(&adminSort, "sort", "", "date-desc, date-asc, name-asc or name-desc")
	f.IntVar(&adminPage, "page", 1, "Page number")
	f.IntVar(&adminLimit, "limit", 10, "Page size")
	adminMangaCmd.Flags().IntVar(&adminLimit, "limit", 100, "Maximum entries")
	adminCmd.PersistentFlags().BoolVar(&adminJSON, "json", false, "Print raw JSON")

	adminCmd.AddCommand(adminUsersCmd, adminUserCmd, adminStatsCmd, adminSetRoleCmd, adminDeleteCmd, adminMangaCmd)
}
