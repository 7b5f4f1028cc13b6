package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"playstore/importer"
	"playstore/models"
	"playstore/pricing"
	"playstore/repository"
	"playstore/scraper"
	"playstore/services"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file.html>",
		Short: "Extract product data from a saved page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read page: %w", err)
			}
			content := string(raw)

			detector := scraper.NewBotDetector()
			extractor := scraper.NewExtractor(detector, scraper.NewLocaleParser(), "")
			parsed := extractor.Parse(content)
			if !parsed.Blocked {
				lang := scraper.NewLanguageDetector().Detect(content, scraper.VisibleText(content))
				parsed.Ru = lang.Ru
				parsed.Sub = lang.Sub
			}
			return printJSON(cmd.OutOrStdout(), parsed)
		},
	}
}

func newPriceCmd() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "price <amount>",
		Short: "Compute the display price of a store price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			docs, closeStore, err := repository.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			store := services.NewCatalogService(docs, cfg).Store(cmd.Context())
			region = strings.ToUpper(region)
			rules := store.Rates[region]

			return printJSON(cmd.OutOrStdout(), map[string]any{
				"region":     region,
				"storePrice": amount,
				"rate":       pricing.PickRate(rules, amount),
				"roundStep":  store.Settings.RoundStep,
				"finalPrice": pricing.ComputeDisplayPrice(amount, rules, store.Settings.RoundStep),
			})
		},
	}
	cmd.Flags().StringVar(&region, "region", models.RegionTR, "pricing region")
	return cmd
}

func newImportCmd() *cobra.Command {
	var add bool

	cmd := &cobra.Command{
		Use:   "import <url>",
		Short: "Fetch and parse a product with the headless browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fetcher := scraper.NewLazyFetcher(importer.FetcherOptions(cfg))
			defer fetcher.Close()

			result, err := importer.FromConfig(cfg, fetcher).Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !add {
				return nil
			}
			if result.Draft == nil {
				return fmt.Errorf("import produced no usable record")
			}

			docs, closeStore, err := repository.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			count, err := services.NewCatalogService(docs, cfg).AddGame(cmd.Context(), draftInput(result.Draft))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "added %s, catalog has %d games\n", result.Draft.ID, count)
			return nil
		},
	}
	cmd.Flags().BoolVar(&add, "add", false, "insert the imported record into the catalog")
	return cmd
}

func draftInput(d *models.GameRecord) models.GameInput {
	return models.GameInput{
		ID:       d.ID,
		Name:     d.Name,
		Cover:    d.Cover,
		Platform: d.Platform,
		Edition:  d.Edition,
		Regions:  d.Regions,
	}
}
