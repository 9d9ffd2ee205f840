package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yourusername/media-resolve-go/internal/domain"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "media-resolve",
		Short: "media-resolve CLI - Resolve direct media URLs for social video links",
		Long:  `A command-line interface for resolving YouTube, X/Twitter, TikTok, Facebook, Instagram and Google Drive links into direct media URLs.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(statsCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [url]",
	Short: "Resolve a direct media URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		platform, _ := cmd.Flags().GetString("platform")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		form := url.Values{"url": {args[0]}}
		if platform != "" {
			form.Set("platform", platform)
		}

		resp, err := http.PostForm(serverURL+"/api/v1/resolve", form)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if jsonOutput {
			fmt.Println(string(body))
			if resp.StatusCode != http.StatusOK {
				os.Exit(1)
			}
			return
		}

		var result domain.ResolveResponse
		if err := json.Unmarshal(body, &result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: unexpected response (%d): %s\n", resp.StatusCode, truncate(string(body), 200))
			os.Exit(1)
		}
		if !result.Success {
			fmt.Fprintf(os.Stderr, "Error (%d): %s\n", resp.StatusCode, result.Error)
			os.Exit(1)
		}

		fmt.Printf("Platform: %s\n", result.Platform)
		switch {
		case result.CatboxURL != "":
			fmt.Printf("Catbox:   %s\n", result.CatboxURL)
		case result.TransferURL != "":
			fmt.Printf("Transfer: %s\n", result.TransferURL)
		default:
			fmt.Printf("Download: %s\n", result.DownloadURL)
		}
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [url]",
	Short: "Show which platform a URL belongs to (offline)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		platform := domain.DetectPlatform(args[0])
		if platform == "" {
			fmt.Fprintln(os.Stderr, "Unsupported platform")
			os.Exit(1)
		}
		fmt.Println(platform)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent resolutions",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		limit, _ := cmd.Flags().GetInt("limit")
		platform, _ := cmd.Flags().GetString("platform")

		query := url.Values{"limit": {strconv.Itoa(limit)}}
		if platform != "" {
			query.Set("platform", platform)
		}

		var resolutions []domain.Resolution
		getJSON(serverURL+"/api/v1/resolutions?"+query.Encode(), &resolutions)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tURL\tPLATFORM\tSTATUS\tLATENCY\tCREATED")
		for _, r := range resolutions {
			status := strconv.Itoa(r.StatusCode)
			if r.ErrorKind != "" {
				status += " " + string(r.ErrorKind)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dms\t%s\n",
				truncate(r.ID, 8),
				truncate(r.URL, 40),
				r.Platform,
				status,
				r.LatencyMs,
				r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		w.Flush()
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get resolution details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		var r domain.Resolution
		getJSON(serverURL+"/api/v1/resolutions/"+url.PathEscape(args[0]), &r)

		fmt.Printf("Resolution Details:\n")
		fmt.Printf("  ID:       %s\n", r.ID)
		fmt.Printf("  URL:      %s\n", r.URL)
		fmt.Printf("  Platform: %s\n", r.Platform)
		fmt.Printf("  Status:   %d\n", r.StatusCode)
		fmt.Printf("  Stage:    %s\n", r.Stage)
		fmt.Printf("  Latency:  %dms\n", r.LatencyMs)
		fmt.Printf("  Created:  %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
		if r.DownloadURL != "" {
			fmt.Printf("  Download: %s\n", r.DownloadURL)
		}
		if r.RelayURL != "" {
			fmt.Printf("  Relay:    %s\n", r.RelayURL)
		}
		if r.ErrorMessage != "" {
			fmt.Printf("  Error:    %s\n", r.ErrorMessage)
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show resolution statistics",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		var stats domain.ResolutionStats
		getJSON(serverURL+"/api/v1/resolutions/stats", &stats)

		fmt.Println("Resolution Statistics:")
		fmt.Printf("  Total:     %d\n", stats.Total)
		fmt.Printf("  Succeeded: %d\n", stats.Succeeded)
		fmt.Printf("  Failed:    %d\n", stats.Failed)
		fmt.Printf("  Relayed:   %d\n", stats.Relayed)

		if len(stats.ByPlatform) > 0 {
			fmt.Println("By platform:")
			for _, p := range domain.AllPlatforms() {
				if n, ok := stats.ByPlatform[p]; ok {
					fmt.Printf("  %-10s %d\n", p, n)
				}
			}
		}
		if len(stats.ByError) > 0 {
			fmt.Println("By error:")
			for kind, n := range stats.ByError {
				fmt.Printf("  %-21s %d\n", kind, n)
			}
		}
	},
}

// getJSON fetches endpoint and decodes the body into v, exiting on any failure
func getJSON(endpoint string, v interface{}) {
	resp, err := http.Get(endpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		fmt.Fprintln(os.Stderr, "Error: not found (is history enabled on the server?)")
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
		os.Exit(1)
	}

	if err := json.Unmarshal(body, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	resolveCmd.Flags().StringP("platform", "p", "", "Platform (youtube, twitter, tiktok, facebook, instagram, gdrive)")
	resolveCmd.Flags().BoolP("json", "j", false, "Print the raw JSON response")
	historyCmd.Flags().IntP("limit", "n", 20, "Number of resolutions to show")
	historyCmd.Flags().StringP("platform", "p", "", "Filter by platform")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
