package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/scrapekit/internal/config"
	"github.com/amosWeiskopf/scrapekit/internal/logging"
	"github.com/amosWeiskopf/scrapekit/pkg/cleaner"
	"github.com/amosWeiskopf/scrapekit/pkg/fetcher"
	"github.com/amosWeiskopf/scrapekit/pkg/scraper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "scrapekit",
	Short: "ScrapeKit - building blocks for ad-hoc scraping scripts",
	Long: `ScrapeKit bundles a page scraper, a REST API fetcher and a
text/tabular cleaner for quick data-collection scripts.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			cfg.Logging.Level = "debug"
		}
		logging.Setup(logging.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
		return nil
	},
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [URL]",
	Short: "Scrape text or links from a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selector, _ := cmd.Flags().GetString("selector")
		links, _ := cmd.Flags().GetBool("links")
		paginate, _ := cmd.Flags().GetBool("paginate")
		nextSelector, _ := cmd.Flags().GetString("next-selector")
		if nextSelector == "" {
			nextSelector = cfg.Scraper.NextSelector
		}

		s, err := scraper.New(scraper.Config{
			BaseURL:   args[0],
			UserAgent: cfg.HTTP.UserAgent,
			Timeout:   cfg.HTTP.Timeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create scraper: %w", err)
		}

		extract := func(doc *goquery.Document) ([]string, error) {
			if links {
				return scraper.Links(doc, selector), nil
			}
			return scraper.Texts(doc, selector), nil
		}

		var items []string
		if paginate {
			items, err = scraper.Paginate(cmd.Context(), s, args[0], extract, scraper.PaginateOptions{
				NextSelector: nextSelector,
				MaxPages:     cfg.Scraper.MaxPages,
			})
		} else {
			items, err = scraper.Scrape(cmd.Context(), s, args[0], nil, scraper.MethodGet, extract)
		}
		if err != nil {
			return fmt.Errorf("scrape failed: %w", err)
		}

		for _, item := range items {
			fmt.Println(item)
		}
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [BASE_URL] [ENDPOINT]",
	Short: "Fetch JSON from a REST API",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/"
		if len(args) == 2 {
			endpoint = args[1]
		}
		paginate, _ := cmd.Flags().GetBool("paginate")
		method, _ := cmd.Flags().GetString("method")

		f := fetcher.New(fetcher.Config{
			BaseURL: args[0],
			Timeout: cfg.HTTP.Timeout,
			Headers: map[string]string{"User-Agent": cfg.HTTP.UserAgent},
		})

		if paginate {
			items, err := fetcher.Paginate[json.RawMessage](cmd.Context(), f, endpoint, fetcher.PaginateOptions{
				PageParam: cfg.Fetcher.PageParam,
				StartPage: cfg.Fetcher.StartPage,
				MaxPages:  cfg.Fetcher.MaxPages,
			})
			if err != nil {
				return fmt.Errorf("paginated fetch failed: %w", err)
			}
			for _, item := range items {
				fmt.Println(string(item))
			}
			return nil
		}

		m, err := fetcher.ParseMethod(method)
		if err != nil {
			return err
		}
		var out interface{}
		if err := f.FetchJSONWithRetry(cmd.Context(), endpoint, fetcher.RequestOptions{Method: m}, &out, cfg.Fetcher.Retries); err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		pretty, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize text from stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stem, _ := cmd.Flags().GetBool("stem")
		lemmatize, _ := cmd.Flags().GetBool("lemmatize")

		n, err := cleaner.NewNormalizer(cleaner.Options{
			StripTags:       cfg.Cleaner.StripTags,
			StripNonAlpha:   cfg.Cleaner.StripNonAlpha,
			Lowercase:       cfg.Cleaner.Lowercase,
			RemoveStopWords: cfg.Cleaner.RemoveStops,
			Stem:            stem || cfg.Cleaner.Stem,
			Lemmatize:       lemmatize || cfg.Cleaner.Lemmatize,
			Language:        cfg.Cleaner.Language,
		})
		if err != nil {
			return fmt.Errorf("failed to create normalizer: %w", err)
		}

		scanner := bufio.NewScanner(os.Stdin)
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		out, err := n.Normalize(strings.Join(lines, "\n"))
		if err != nil {
			return fmt.Errorf("normalization failed: %w", err)
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().String("selector", "p", "CSS selector for extracted elements")
	scrapeCmd.Flags().Bool("links", false, "Extract hrefs instead of text")
	scrapeCmd.Flags().Bool("paginate", false, "Follow next-page links")
	scrapeCmd.Flags().String("next-selector", "", "CSS selector for the next-page anchor")

	fetchCmd.Flags().Bool("paginate", false, "Fetch all pages")
	fetchCmd.Flags().String("method", "GET", "HTTP method")

	cleanCmd.Flags().Bool("stem", false, "Stem tokens")
	cleanCmd.Flags().Bool("lemmatize", false, "Lemmatize tokens")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(cleanCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
