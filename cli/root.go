package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"github.com/binhbb2204/manga-catalog/cli/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

var serverOverride string

var rootCmd = &cobra.Command{
	Use:           "mangactl",
	Short:         "Manga catalog command line client",
	Long:          `mangactl talks to a manga catalog API server: accounts, bookmarks, the catalog and admin tools.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the CLI configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Init(serverOverride)
		if err != nil {
			printError("Failed to initialize configuration")
			return err
		}
		path, _ := config.GetConfigPath()
		printSuccess("Configuration ready")
		fmt.Printf("Config: %s\n", path)
		fmt.Printf("Server: %s\n", cfg.Server.URL)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverOverride, "server", "", "API server URL (overrides config)")
	rootCmd.AddCommand(initCmd, authCmd, mangaCmd, listCmd, adminCmd, systemCmd, configCmd)
}

func printError(msg string)   { fmt.Fprintf(os.Stderr, "✗ %s\n", msg) }
func printSuccess(msg string) { fmt.Printf("✓ %s\n", msg) }
func printInfo(msg string)    { fmt.Printf("ℹ %s\n", msg) }

// apiResponse is the envelope every API endpoint answers with.
type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	raw     json.RawMessage
	status  int
}

func (r *apiResponse) decode(v interface{}) error {
	return json.Unmarshal(r.raw, v)
}

type client struct {
	baseURL string
	token   string
	user    string
	http    *http.Client
}

func newClient() (*client, error) {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrNotInitialized) {
			printError("Configuration not initialized")
			fmt.Println("Run: mangactl init")
		}
		return nil, err
	}
	base := cfg.Server.URL
	if serverOverride != "" {
		base = serverOverride
	}
	return &client{
		baseURL: base,
		token:   cfg.User.Token,
		user:    cfg.User.Username,
		http:    &http.Client{Timeout: time.Duration(cfg.Server.Timeout) * time.Second},
	}, nil
}

func (c *client) requireLogin() error {
	if c.token == "" {
		printError("Not logged in")
		fmt.Println("Run: mangactl auth login --username <name>")
		return errors.New("not logged in")
	}
	return nil
}

func (c *client) do(method, path string, body interface{}) (*apiResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

// upload posts a single file under field plus any extra form values.
func (c *client) upload(path, field, filePath string, values map[string]string) (*apiResponse, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		w.WriteField(k, v)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filepath.Base(filePath)))
	h.Set("Content-Type", mimetype.Detect(data).String())
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	part.Write(data)
	w.Close()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req)
}

func (c *client) send(req *http.Request) (*apiResponse, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		printError("Server connection error")
		fmt.Println("Check server status: mangactl system info")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	out := &apiResponse{raw: raw, status: resp.StatusCode}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("unexpected response (HTTP %d)", resp.StatusCode)
	}
	return out, nil
}

// check turns an unsuccessful envelope into an error, printing its message.
func check(action string, res *apiResponse) error {
	if res.Success {
		return nil
	}
	printError(fmt.Sprintf("%s failed: %s", action, res.Message))
	if res.status == http.StatusUnauthorized {
		fmt.Println("Your session may have expired. Run: mangactl auth login")
	}
	return fmt.Errorf("%s failed", action)
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
