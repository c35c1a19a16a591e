package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rogersnm/frontdesk/internal/editor"
	"github.com/rogersnm/frontdesk/internal/markdown"
	"github.com/rogersnm/frontdesk/internal/model"
	"github.com/rogersnm/frontdesk/internal/store"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients",
}

var clientAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		category, _ := cmd.Flags().GetString("category")
		address, _ := cmd.Flags().GetString("address")
		statusStr, _ := cmd.Flags().GetString("status")

		status := model.ClientStatus(statusStr)
		if status != "" && !status.IsKnown() {
			return fmt.Errorf("invalid status %q: must be prospect, active, or inactive", statusStr)
		}
		renewal, _, err := dateFlag(cmd, "renewal")
		if err != nil {
			return err
		}
		lastContact, _, err := dateFlag(cmd, "last-contact")
		if err != nil {
			return err
		}

		c, err := stores.Clients.AddClient(cmd.Context(), store.ClientProfile{
			Name:              args[0],
			Email:             email,
			Phone:             phone,
			Category:          category,
			Address:           address,
			Notes:             readStdin(),
			Status:            status,
			PolicyRenewalDate: renewal,
			LastContactDate:   lastContact,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added client %s (%s)\n", c.Name, c.ID)
		return nil
	},
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		statusStr, _ := cmd.Flags().GetString("status")
		category, _ := cmd.Flags().GetString("category")
		query, _ := cmd.Flags().GetString("query")

		clients := stores.Clients.FilterClients(store.ClientFilter{
			Status:   model.ClientStatus(statusStr),
			Category: category,
			Query:    query,
		})
		fmt.Println(markdown.RenderClientTable(clients))
		return nil
	},
}

var clientShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show client details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := stores.Clients.GetClient(args[0])
		if err != nil {
			return err
		}

		pretty, _ := cmd.Flags().GetBool("pretty")
		if !pretty {
			data, err := markdown.MarshalClient(c)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		}

		fields := []string{
			markdown.RenderField("ID", c.ID),
			markdown.RenderField("Status", markdown.RenderStatus(string(c.Status))),
		}
		for _, f := range []struct{ label, value string }{
			{"Email", c.Email},
			{"Phone", c.Phone},
			{"Category", c.Category},
			{"Address", c.Address},
		} {
			if f.value != "" {
				fields = append(fields, markdown.RenderField(f.label, f.value))
			}
		}
		fields = append(fields,
			markdown.RenderField("Renewal", markdown.FormatDate(c.PolicyRenewalDate)),
			markdown.RenderField("Last contact", markdown.FormatDate(c.LastContactDate)),
			markdown.RenderField("Created", c.CreatedAt.Format(time.DateTime)),
		)
		if c.UpdatedAt != nil {
			fields = append(fields, markdown.RenderField("Updated", c.UpdatedAt.Format(time.DateTime)))
		}

		fmt.Print(markdown.RenderEntityHeader(c.Name, fields))
		if c.Notes != "" {
			rendered, err := markdown.RenderMarkdown(c.Notes)
			if err != nil {
				return err
			}
			fmt.Print(rendered)
		}
		if len(c.Interactions) > 0 {
			fmt.Println("\nInteractions:")
			fmt.Println(markdown.RenderInteractionTable(c.Interactions))
		}
		if docs := stores.Documents.GetClientDocuments(c.ID); len(docs) > 0 {
			fmt.Println("\nDocuments:")
			fmt.Println(markdown.RenderDocumentTable(docs))
		}
		return nil
	},
}

var clientUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a client's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		upd := store.ClientUpdate{
			Name:     stringFlag(cmd, "name"),
			Email:    stringFlag(cmd, "email"),
			Phone:    stringFlag(cmd, "phone"),
			Category: stringFlag(cmd, "category"),
			Address:  stringFlag(cmd, "address"),
		}
		if s := stringFlag(cmd, "status"); s != nil {
			status := model.ClientStatus(*s)
			if !status.IsKnown() {
				return fmt.Errorf("invalid status %q: must be prospect, active, or inactive", *s)
			}
			upd.Status = &status
		}
		renewal, ok, err := dateFlag(cmd, "renewal")
		if err != nil {
			return err
		}
		if ok {
			upd.PolicyRenewalDate = &renewal
		}
		lastContact, ok, err := dateFlag(cmd, "last-contact")
		if err != nil {
			return err
		}
		if ok {
			upd.LastContactDate = &lastContact
		}
		if notes := readStdin(); notes != "" {
			upd.Notes = &notes
		}

		if upd == (store.ClientUpdate{}) {
			return fmt.Errorf("at least one update flag or piped notes is required (--name, --email, --phone, --category, --address, --status, --renewal, --last-contact, stdin)")
		}

		c, err := stores.Clients.UpdateClient(cmd.Context(), args[0], upd)
		if err != nil {
			return err
		}
		fmt.Printf("Updated client %s\n", c.ID)
		return nil
	},
}

var clientDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Permanently delete a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := stores.Clients.GetClient(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Client: %s (%s)\n", c.Name, c.ID)
		if err := confirmDelete(cmd, c.ID); err != nil {
			return err
		}
		if err := stores.Clients.DeleteClient(cmd.Context(), c.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted client %s\n", c.ID)
		return nil
	},
}

var clientStatusCmd = &cobra.Command{
	Use:   "status <id> <prospect|active|inactive>",
	Short: "Change a client's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := model.ClientStatus(args[1])
		if !status.IsKnown() {
			return fmt.Errorf("invalid status %q: must be prospect, active, or inactive", args[1])
		}
		c, err := stores.Clients.UpdateClientStatus(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		fmt.Printf("Client %s is now %s\n", c.ID, c.Status)
		return nil
	},
}

var clientInteractCmd = &cobra.Command{
	Use:   "interact <id>",
	Short: "Record an interaction with a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		notes, _ := cmd.Flags().GetString("notes")
		if notes == "" {
			notes = readStdin()
		}
		in, err := stores.Clients.AddInteraction(cmd.Context(), args[0], store.InteractionInput{Type: typ, Notes: notes})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %s %s\n", in.Type, in.ID)
		return nil
	},
}

var clientAttachCmd = &cobra.Command{
	Use:   "attach <id> <name>",
	Short: "Add a document and reference it from the client",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := stores.Clients.GetClient(args[0]); err != nil {
			return err
		}
		in := documentInputFromFlags(cmd, args[1])
		d, err := stores.Documents.AddDocument(cmd.Context(), args[0], in)
		if err != nil {
			return err
		}
		ref, err := stores.Clients.AddDocumentRef(cmd.Context(), args[0], store.DocumentRefInput{
			DocumentID: d.ID,
			Name:       d.Name,
			Type:       d.Type,
			URL:        d.URL,
		})
		if err != nil {
			return fmt.Errorf("document %s added but not linked: %w", d.ID, err)
		}
		fmt.Printf("Attached %s (%s) as %s\n", d.Name, d.ID, ref.ID)
		return nil
	},
}

var clientSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search clients by name, email, phone, or notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(markdown.RenderClientTable(stores.Clients.SearchClients(args[0])))
		return nil
	},
}

var clientRenewalsCmd = &cobra.Command{
	Use:   "renewals",
	Short: "List clients with a policy renewal coming up",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if days < 0 {
			return fmt.Errorf("--days must not be negative")
		}
		fmt.Println(markdown.RenderClientTable(stores.Clients.GetUpcomingRenewals(days)))
		return nil
	},
}

var clientTimelineCmd = &cobra.Command{
	Use:   "timeline <id>",
	Short: "Show a client's activity, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := stores.Clients.GetClient(args[0]); err != nil {
			return err
		}
		fmt.Print(markdown.RenderTimeline(stores.Clients.GetClientTimeline(args[0])))
		return nil
	},
}

var clientCheckoutCmd = &cobra.Command{
	Use:   "checkout <id>",
	Short: "Write a client profile to a local markdown file for editing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		path, err := checkoutClient(args[0], dir)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var clientCheckinCmd = &cobra.Command{
	Use:   "checkin <id>",
	Short: "Apply a locally edited client profile and remove the local copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		path := filepath.Join(dir, args[0]+".md")
		c, err := checkinClient(cmd, args[0], path)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		fmt.Printf("Checked in client %s\n", c.ID)
		return nil
	},
}

var clientEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a client profile in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.MkdirTemp("", "frontdesk-edit-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		path, err := checkoutClient(args[0], dir)
		if err != nil {
			return err
		}
		if err := editor.Open(path); err != nil {
			return err
		}
		c, err := checkinClient(cmd, args[0], path)
		if err != nil {
			return err
		}
		fmt.Printf("Updated client %s\n", c.ID)
		return nil
	},
}

func checkoutClient(clientID, dir string) (string, error) {
	c, err := stores.Clients.GetClient(clientID)
	if err != nil {
		return "", err
	}
	data, err := markdown.MarshalClient(c)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, c.ID+".md")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// checkinClient applies every profile field from the file. Interactions,
// document references, and timestamps are not editable this way.
func checkinClient(cmd *cobra.Command, clientID, path string) (model.Client, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Client{}, fmt.Errorf("no local copy of %s: %w", clientID, err)
	}
	defer f.Close()

	edited, err := markdown.ParseClient(f)
	if err != nil {
		return model.Client{}, err
	}
	if edited.ID != clientID {
		return model.Client{}, fmt.Errorf("%s holds client %s, not %s", path, edited.ID, clientID)
	}
	if !edited.Status.IsKnown() {
		return model.Client{}, fmt.Errorf("invalid status %q: must be prospect, active, or inactive", edited.Status)
	}
	return stores.Clients.UpdateClient(cmd.Context(), clientID, store.ClientUpdate{
		Name:              &edited.Name,
		Email:             &edited.Email,
		Phone:             &edited.Phone,
		Category:          &edited.Category,
		Address:           &edited.Address,
		Notes:             &edited.Notes,
		Status:            &edited.Status,
		PolicyRenewalDate: &edited.PolicyRenewalDate,
		LastContactDate:   &edited.LastContactDate,
	})
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().StringP("category", "c", "", "line of business (e.g. auto, home, life)")
	cmd.Flags().String("address", "", "postal address")
	cmd.Flags().StringP("status", "s", "", "status (prospect, active, inactive)")
	cmd.Flags().String("renewal", "", "policy renewal date (YYYY-MM-DD)")
	cmd.Flags().String("last-contact", "", "last contact date (YYYY-MM-DD)")
}

func init() {
	addProfileFlags(clientAddCmd)

	clientListCmd.Flags().StringP("status", "s", "", "filter by status (prospect, active, inactive)")
	clientListCmd.Flags().StringP("category", "c", "", "filter by category")
	clientListCmd.Flags().StringP("query", "q", "", "filter by name, email, phone, or notes")

	clientShowCmd.Flags().Bool("pretty", false, "render with ANSI styling")

	addProfileFlags(clientUpdateCmd)
	clientUpdateCmd.Flags().String("name", "", "new name")

	clientDeleteCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	clientInteractCmd.Flags().StringP("type", "t", "note", "interaction type (call, email, meeting, note)")
	clientInteractCmd.Flags().StringP("notes", "n", "", "interaction notes (default: stdin)")

	addDocumentFlags(clientAttachCmd)

	clientRenewalsCmd.Flags().IntP("days", "d", store.DefaultRenewalWindowDays, "look-ahead window in days")

	clientCheckoutCmd.Flags().String("dir", ".frontdesk", "directory for the local copy")
	clientCheckinCmd.Flags().String("dir", ".frontdesk", "directory holding the local copy")

	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientShowCmd)
	clientCmd.AddCommand(clientUpdateCmd)
	clientCmd.AddCommand(clientDeleteCmd)
	clientCmd.AddCommand(clientStatusCmd)
	clientCmd.AddCommand(clientInteractCmd)
	clientCmd.AddCommand(clientAttachCmd)
	clientCmd.AddCommand(clientSearchCmd)
	clientCmd.AddCommand(clientRenewalsCmd)
	clientCmd.AddCommand(clientTimelineCmd)
	clientCmd.AddCommand(clientCheckoutCmd)
	clientCmd.AddCommand(clientCheckinCmd)
	clientCmd.AddCommand(clientEditCmd)
	rootCmd.AddCommand(clientCmd)
}
