package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rogersnm/frontdesk/internal/markdown"
	"github.com/rogersnm/frontdesk/internal/model"
	"github.com/rogersnm/frontdesk/internal/store"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage client documents",
}

var docAddCmd = &cobra.Command{
	Use:   "add <client-id> <name>",
	Short: "Record a document for a client",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := stores.Documents.AddDocument(cmd.Context(), args[0], documentInputFromFlags(cmd, args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("Added document %s (%s)\n", d.Name, d.ID)
		return nil
	},
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		clientID, _ := cmd.Flags().GetString("client")
		typ, _ := cmd.Flags().GetString("type")
		statusStr, _ := cmd.Flags().GetString("status")

		status := model.DocumentStatus(statusStr)
		if status != "" {
			if err := model.ValidateDocumentStatus(status); err != nil {
				return err
			}
		}
		docs := stores.Documents.ListDocuments(store.DocumentFilter{
			Type:     typ,
			Status:   status,
			ClientID: clientID,
		})
		fmt.Println(markdown.RenderDocumentTable(docs))
		return nil
	},
}

var docShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := stores.Documents.GetDocument(args[0])
		if err != nil {
			return err
		}
		fields := []string{
			markdown.RenderField("ID", d.ID),
			markdown.RenderField("Client", d.ClientID),
			markdown.RenderField("Type", d.Type),
			markdown.RenderField("Status", markdown.RenderStatus(string(d.Status))),
			markdown.RenderField("Version", strconv.Itoa(d.LatestVersion())),
			markdown.RenderField("Uploaded", d.UploadedAt.Format(time.DateTime)),
		}
		if len(d.Tags) > 0 {
			fields = append(fields, markdown.RenderField("Tags", strings.Join(d.Tags, ", ")))
		}
		if d.URL != "" {
			fields = append(fields, markdown.RenderField("URL", d.URL))
		}
		if d.MimeType != "" {
			fields = append(fields, markdown.RenderField("MIME type", d.MimeType))
		}
		for _, ts := range []struct {
			label string
			t     *time.Time
		}{
			{"Updated", d.UpdatedAt},
			{"Archived", d.ArchivedAt},
			{"Deleted", d.DeletedAt},
		} {
			if ts.t != nil {
				fields = append(fields, markdown.RenderField(ts.label, ts.t.Format(time.DateTime)))
			}
		}

		fmt.Print(markdown.RenderEntityHeader(d.Name, fields))
		if d.Description != "" {
			rendered, err := markdown.RenderMarkdown(d.Description)
			if err != nil {
				return err
			}
			fmt.Print(rendered)
		}
		return nil
	},
}

var docVersionCmd = &cobra.Command{
	Use:   "version <id>",
	Short: "Add a new version of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		typ, _ := cmd.Flags().GetString("type")
		size, _ := cmd.Flags().GetInt64("size")
		mime, _ := cmd.Flags().GetString("mime")
		url, _ := cmd.Flags().GetString("url")
		comment, _ := cmd.Flags().GetString("comment")

		v, err := stores.Documents.AddDocumentVersion(cmd.Context(), args[0], store.VersionInput{
			Name:     name,
			Type:     typ,
			Size:     size,
			MimeType: mime,
			URL:      url,
			Comment:  comment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added version %d of %s\n", v.Number, args[0])
		return nil
	},
}

var docVersionsCmd = &cobra.Command{
	Use:   "versions <id> [number]",
	Short: "List a document's versions, or show one",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid version number %q", args[1])
			}
			v, ok := stores.Documents.GetDocumentVersion(args[0], n)
			if !ok {
				return fmt.Errorf("version %d of %s not found", n, args[0])
			}
			fmt.Println(markdown.RenderVersionTable([]model.Version{v}))
			return nil
		}
		d, err := stores.Documents.GetDocument(args[0])
		if err != nil {
			return err
		}
		fmt.Println(markdown.RenderVersionTable(d.Versions))
		return nil
	},
}

var docUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update document metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		upd := store.DocumentUpdate{
			Name:        stringFlag(cmd, "name"),
			Type:        stringFlag(cmd, "type"),
			Description: stringFlag(cmd, "description"),
			URL:         stringFlag(cmd, "url"),
			MimeType:    stringFlag(cmd, "mime"),
		}
		if cmd.Flags().Changed("size") {
			size, _ := cmd.Flags().GetInt64("size")
			upd.Size = &size
		}
		if tags := stringFlag(cmd, "tags"); tags != nil {
			list := splitList(*tags)
			upd.Tags = &list
		}
		if upd == (store.DocumentUpdate{}) {
			return fmt.Errorf("at least one update flag is required (--name, --type, --description, --url, --mime, --size, --tags)")
		}

		d, err := stores.Documents.UpdateDocument(cmd.Context(), args[0], upd)
		if err != nil {
			return err
		}
		fmt.Printf("Updated document %s\n", d.ID)
		return nil
	},
}

var docArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := stores.Documents.ArchiveDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Archived document %s\n", args[0])
		return nil
	},
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Mark a document as deleted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := stores.Documents.DeleteDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted document %s\n", args[0])
		return nil
	},
}

var docSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search active documents by name, type, or tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(markdown.RenderDocumentTable(stores.Documents.SearchDocuments(args[0])))
		return nil
	},
}

var docRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recently uploaded active documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if typ, _ := cmd.Flags().GetString("type"); typ != "" {
			docs := stores.Documents.GetDocumentsByType(typ)
			fmt.Println(markdown.RenderDocumentTable(newestFirst(docs, limit)))
			return nil
		}
		fmt.Println(markdown.RenderDocumentTable(stores.Documents.GetRecentDocuments(limit)))
		return nil
	},
}

var docTagCmd = &cobra.Command{
	Use:   "tag <id> <tag>",
	Short: "Add a tag to a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := stores.Documents.AddDocumentTag(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Tagged %s with %q\n", args[0], args[1])
		return nil
	},
}

var docUntagCmd = &cobra.Command{
	Use:   "untag <id> <tag>",
	Short: "Remove a tag from a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := stores.Documents.RemoveDocumentTag(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("%s has no tag %q\n", args[0], args[1])
			return nil
		}
		fmt.Printf("Removed tag %q from %s\n", args[1], args[0])
		return nil
	},
}

var docStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize documents by type and status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(markdown.RenderStats(stores.Documents.GetDocumentStats()))
		return nil
	},
}

func documentInputFromFlags(cmd *cobra.Command, name string) store.DocumentInput {
	typ, _ := cmd.Flags().GetString("type")
	size, _ := cmd.Flags().GetInt64("size")
	mime, _ := cmd.Flags().GetString("mime")
	url, _ := cmd.Flags().GetString("url")
	desc, _ := cmd.Flags().GetString("description")
	tags, _ := cmd.Flags().GetString("tags")
	return store.DocumentInput{
		Name:        name,
		Type:        typ,
		Size:        size,
		MimeType:    mime,
		URL:         url,
		Description: desc,
		Tags:        splitList(tags),
	}
}

func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "", "document type (e.g. policy, claim, id)")
	cmd.Flags().Int64("size", 0, "file size in bytes")
	cmd.Flags().String("mime", "", "MIME type")
	cmd.Flags().String("url", "", "location of the file")
	cmd.Flags().StringP("description", "d", "", "description (markdown)")
	cmd.Flags().String("tags", "", "comma-separated tags")
}

// newestFirst orders docs by upload time and keeps at most limit of them.
func newestFirst(docs []model.Document, limit int) []model.Document {
	if limit <= 0 {
		limit = store.DefaultRecentLimit
	}
	slices.SortStableFunc(docs, func(a, b model.Document) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})
	return docs[:min(limit, len(docs))]
}

func init() {
	addDocumentFlags(docAddCmd)

	docListCmd.Flags().String("client", "", "filter by client ID")
	docListCmd.Flags().StringP("type", "t", "", "filter by type")
	docListCmd.Flags().StringP("status", "s", "", "filter by status (active, archived, deleted)")

	docVersionCmd.Flags().String("name", "", "file name of the new version")
	docVersionCmd.Flags().StringP("type", "t", "", "document type of the new version")
	docVersionCmd.Flags().Int64("size", 0, "file size in bytes")
	docVersionCmd.Flags().String("mime", "", "MIME type")
	docVersionCmd.Flags().String("url", "", "location of the file")
	docVersionCmd.Flags().StringP("comment", "m", "", "what changed")

	addDocumentFlags(docUpdateCmd)
	docUpdateCmd.Flags().String("name", "", "new name")

	docRecentCmd.Flags().IntP("limit", "n", store.DefaultRecentLimit, "maximum number of documents")
	docRecentCmd.Flags().StringP("type", "t", "", "only documents of this type")

	docCmd.AddCommand(docAddCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docVersionCmd)
	docCmd.AddCommand(docVersionsCmd)
	docCmd.AddCommand(docUpdateCmd)
	docCmd.AddCommand(docArchiveCmd)
	docCmd.AddCommand(docDeleteCmd)
	docCmd.AddCommand(docSearchCmd)
	docCmd.AddCommand(docRecentCmd)
	docCmd.AddCommand(docTagCmd)
	docCmd.AddCommand(docUntagCmd)
	docCmd.AddCommand(docStatsCmd)
	rootCmd.AddCommand(docCmd)
}
