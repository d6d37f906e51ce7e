package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/artistly/internal/adapters/http/dto"
	"github.com/jsamuelsen/artistly/internal/domain"
)

func newArtistsCmd(c *cli) *cobra.Command {
	var filter domain.ArtistFilter

	cmd := &cobra.Command{
		Use:   "artists",
		Short: "List artists, optionally filtered",
		Long: `List the seed roster followed by onboarded artists.

Filters combine; an empty filter matches everything. The index
column is the artist's position in the full list, and is the value
to pass when requesting a quote.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listing := c.state.Listing.List(cmd.Context(), filter)

			if c.jsonOut {
				return writeJSON(cmd.OutOrStdout(), dto.NewListArtistsResponse(listing))
			}

			return writeArtists(cmd.OutOrStdout(), listing.Artists)
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "only artists offering this category")
	cmd.Flags().StringVar(&filter.Location, "location", "", "only artists based in this location")
	cmd.Flags().StringVar(&filter.FeeRange, "fee-range", "", "only artists in this fee range")

	return cmd
}

func newQuotesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "quotes",
		Short: "List recorded quote requests, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quotes := c.state.Quotes.List(cmd.Context())

			if c.jsonOut {
				out := make([]dto.QuoteResponse, 0, len(quotes))
				for _, q := range quotes {
					out = append(out, dto.NewQuoteResponse(q))
				}

				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "REQUESTED\tARTIST\tFEE RANGE\tLOCATION")

			for _, q := range quotes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					formatTime(q.RequestedAt), q.Artist.Name, q.Artist.FeeRange, q.Artist.Location)
			}

			return tw.Flush()
		},
	}
}

func newThemeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the stored theme preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printTheme(cmd.OutOrStdout(), c.state.Theme.Get(cmd.Context()))
		},
	}

	set := &cobra.Command{
		Use:       "set dark|light",
		Short:     "Store a theme preference",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.ThemeDark), string(domain.ThemeLight)},
		RunE: func(cmd *cobra.Command, args []string) error {
			theme := domain.Theme(args[0])
			if err := c.state.Theme.Set(cmd.Context(), theme); err != nil {
				return err
			}

			return printTheme(cmd.OutOrStdout(), theme)
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Flip between dark and light",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			theme, err := c.state.Theme.Toggle(cmd.Context())
			if err != nil {
				return err
			}

			return printTheme(cmd.OutOrStdout(), theme)
		},
	}

	cmd.AddCommand(set, toggle)

	return cmd
}

func writeArtists(w io.Writer, artists []domain.IndexedArtist) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tNAME\tCATEGORIES\tLANGUAGES\tFEE RANGE\tLOCATION\tSUBMITTED")

	for _, a := range artists {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.Index,
			a.Name,
			strings.Join(a.Categories, ", "),
			strings.Join(a.Languages, ", "),
			a.FeeRange,
			a.Location,
			formatTime(a.SubmittedAt),
		)
	}

	return tw.Flush()
}

func printTheme(w io.Writer, theme domain.Theme) error {
	_, err := fmt.Fprintln(w, theme)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.UTC().Format(time.RFC3339)
}
