package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kcartlidge/ruthless/internal/content"
	rerrors "github.com/kcartlidge/ruthless/internal/errors"
	"github.com/kcartlidge/ruthless/internal/frontmatter"
	"github.com/kcartlidge/ruthless/internal/transform"
	"github.com/kcartlidge/ruthless/internal/utils"
)

var (
	listDir  string
	listJSON bool
)

type listEntry struct {
	Path     string `json:"path"`
	Link     string `json:"link"`
	Label    string `json:"label"`
	Dated    string `json:"dated,omitempty"`
	Author   string `json:"author,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	SortKey  string `json:"sort_key"`
}

var listCmd = &cobra.Command{
	Use:   "list [folder]",
	Short: "List the pages of a content folder in index order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, _, err := loadSite(args)
		if err != nil {
			return err
		}
		dir := filepath.Join(paths.Content, filepath.FromSlash(listDir))
		items, err := content.Siblings(paths.Content, dir, transform.Templatable)
		if err != nil {
			var pe *frontmatter.ParseError
			if errors.As(err, &pe) {
				return rerrors.ParseFailed(pe.Path, err)
			}
			return rerrors.FileSystemError("read folder", dir, err)
		}

		entries := make([]listEntry, 0, len(items))
		for _, it := range items {
			content.NormaliseDated(it.Metadata)
			dated, _ := it.Metadata.Get(content.KeyDated)
			author, _ := it.Metadata.Get(content.KeyAuthor)
			keywords, _ := it.Metadata.Get(content.KeyKeywords)
			entries = append(entries, listEntry{
				Path:     it.RelPath,
				Link:     it.Link(),
				Label:    it.Label(),
				Dated:    dated,
				Author:   author,
				Keywords: keywords,
				SortKey:  it.SortKey(),
			})
		}

		out := cmd.OutOrStdout()
		if listJSON {
			b, err := utils.PrettyJSON(entries)
			if err != nil {
				return rerrors.InternalError("encode list", err)
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "(no pages)")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "- %s  %s", e.Link, e.Label)
			if e.Dated != "" {
				fmt.Fprintf(out, " (%s)", e.Dated)
			}
			if e.Author != "" {
				fmt.Fprintf(out, " by %s", e.Author)
			}
			fmt.Fprintf(out, "  [%s]\n", e.SortKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listDir, "dir", "d", "", "content folder to list, relative to the content root")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
}
