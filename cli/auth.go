package cli

import (
	"fmt"
	"syscall"
	"time"

	"github.com/binhbb2204/manga-catalog/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	username   string
	email      string
	statusCode string
)

type authResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

type userView struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Bookmarks []string  `json:"bookmarks"`
	Read      []string  `json:"read"`
	Profile   struct {
		Avatar string `json:"avatar"`
	} `json:"profile"`
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Register, login, logout and account status commands.`,
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if username == "" || email == "" {
			return fmt.Errorf("username and email are required (--username, --email)")
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			printError("Passwords do not match")
			return fmt.Errorf("passwords do not match")
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.do("POST", "/api/register", map[string]string{
			"username": username,
			"email":    email,
			"password": password,
		})
		if err != nil {
			return err
		}
		if err := check("Registration", res); err != nil {
			return err
		}

		var out authResult
		res.decode(&out)
		if err := config.UpdateUserToken(out.User.Username, out.Token); err != nil {
			fmt.Println("Warning: Failed to save token to config")
		}
		printSuccess("Account created successfully!")
		fmt.Printf("Username: %s\n", out.User.Username)
		fmt.Printf("Email: %s\n", out.User.Email)
		fmt.Printf("Status: %s\n", out.User.Status)
		fmt.Println("\nYou are now logged in!")
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if username == "" {
			return fmt.Errorf("username is required (--username)")
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.do("POST", "/api/login", map[string]string{
			"username": username,
			"password": password,
		})
		if err != nil {
			return err
		}
		if err := check("Login", res); err != nil {
			return err
		}

		var out authResult
		res.decode(&out)
		if err := config.UpdateUserToken(out.User.Username, out.Token); err != nil {
			printError("Failed to save token to config")
			return err
		}
		printSuccess(fmt.Sprintf("Logged in as %s", out.User.Username))
		fmt.Printf("Session expires: %s\n", out.ExpiresAt.Local().Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and revoke the saved token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if c.token == "" {
			printInfo("Not logged in")
			return nil
		}
		if res, err := c.do("POST", "/api/logout", nil); err == nil && !res.Success {
			printInfo("Server did not accept the token; clearing it locally")
		}
		if err := config.ClearUserToken(); err != nil {
			return err
		}
		printSuccess("Logged out")
		return nil
	},
}

var authChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		current, err := readPassword("Current password: ")
		if err != nil {
			return err
		}
		next, err := readPassword("New password: ")
		if err != nil {
			return err
		}
		res, err := c.do("POST", "/api/change-password", map[string]string{
			"currentPassword": current,
			"newPassword":     next,
		})
		if err != nil {
			return err
		}
		if err := check("Password change", res); err != nil {
			return err
		}
		printSuccess("Password changed")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the logged in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		res, err := c.do("GET", "/api/profile/"+c.user, nil)
		if err != nil {
			return err
		}
		if err := check("Profile lookup", res); err != nil {
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

var authUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Redeem a status code for a new role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if statusCode == "" {
			return fmt.Errorf("status code is required (--code)")
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		res, err := c.do("POST", "/api/profile/change-status", map[string]string{"statusCode": statusCode})
		if err != nil {
			return err
		}
		if err := check("Upgrade", res); err != nil {
			return err
		}
		printSuccess(res.Message)
		return nil
	},
}

var authAvatarCmd = &cobra.Command{
	Use:   "avatar [image-file]",
	Short: "Upload a new avatar image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		res, err := c.upload("/api/profile/update-avatar", "avatar", args[0], nil)
		if err != nil {
			return err
		}
		if err := check("Avatar upload", res); err != nil {
			return err
		}
		var out struct {
			AvatarURL string `json:"avatarUrl"`
		}
		res.decode(&out)
		printSuccess("Avatar updated")
		fmt.Printf("URL: %s%s\n", c.baseURL, out.AvatarURL)
		return nil
	},
}

func printUser(u userView) {
	fmt.Printf("Username: %s\n", u.Username)
	fmt.Printf("Email: %s\n", u.Email)
	fmt.Printf("Status: %s\n", u.Status)
	fmt.Printf("Joined: %s\n", u.CreatedAt.Local().Format("2006-01-02"))
	if u.Profile.Avatar != "" {
		fmt.Printf("Avatar: %s\n", u.Profile.Avatar)
	}
	fmt.Printf("Bookmarks: %d  Read: %d\n", len(u.Bookmarks), len(u.Read))
}

func init() {
	authRegisterCmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	authRegisterCmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	authLoginCmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	authUpgradeCmd.Flags().StringVar(&statusCode, "code", "", "Status code to redeem")

	authCmd.AddCommand(authRegisterCmd, authLoginCmd, authLogoutCmd, authChangePasswordCmd,
		authStatusCmd, authUpgradeCmd, authAvatarCmd)
}
