package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/estatecrm/internal/core"
	"github.com/JonMunkholm/estatecrm/internal/database"
)

func newImportCmd() *cobra.Command {
	var (
		tenant, file, policy, assignee string
		asJSON                         bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import leads from a CSV file",
		Example: `  leadctl import --tenant 6f1c1e2a-... --file leads.csv --policy update
  cat leads.csv | leadctl import --tenant 6f1c1e2a-... --file -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}
			if _, err := core.ParsePolicy(policy); err != nil {
				return withCode(exitUsage, err)
			}
			data, err := readInput(file, cmd.InOrStdin())
			if err != nil {
				return withCode(exitUsage, err)
			}

			return withService(cmd.Context(), func(svc *core.Service) error {
				result, err := svc.Import(cmd.Context(), core.ImportRequest{
					TenantID:          tenantID,
					CSV:               data,
					Policy:            core.DuplicatePolicy(policy),
					DefaultAssigneeID: assignee,
					FileName:          file,
				})
				if result != nil {
					if perr := printImportResult(cmd.OutOrStdout(), result, asJSON); perr != nil {
						return perr
					}
				}
				return classify(err)
			})
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant UUID (required)")
	cmd.Flags().StringVar(&file, "file", "", `CSV file to import, "-" for stdin (required)`)
	cmd.Flags().StringVar(&policy, "policy", "skip", "Duplicate phone policy: skip, reject, or update")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Member id assigned to created leads")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// printImportResult writes a summary line and one line per failed row, or
// the whole result as JSON.
func printImportResult(w io.Writer, r *core.ImportResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "import %s (%s): %d rows, %d created, %d updated, %d skipped, %d failed\n",
		r.ImportID, r.Policy, r.Total, r.Created, r.Updated, r.Skipped, r.Failed)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  line %d: %s\n", e.Row, e.Error)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	var (
		tenant, output string
		filter         struct{ status, source, priority, assignee, search string }
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export leads as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}
			lf := core.ListFilter{
				Status:     core.LeadStatus(strings.ToLower(filter.status)),
				Source:     core.LeadSource(strings.ToLower(filter.source)),
				Priority:   core.LeadPriority(strings.ToLower(filter.priority)),
				AssigneeID: filter.assignee,
				Search:     filter.search,
			}
			if err := lf.Validate(); err != nil {
				return withCode(exitUsage, err)
			}

			return withService(cmd.Context(), func(svc *core.Service) error {
				data, err := svc.Export(cmd.Context(), tenantID, lf)
				if err != nil {
					return classify(err)
				}
				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				return os.WriteFile(output, data, 0o644)
			})
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant UUID (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&filter.status, "status", "", "Only leads with this status")
	cmd.Flags().StringVar(&filter.source, "source", "", "Only leads from this source")
	cmd.Flags().StringVar(&filter.priority, "priority", "", "Only leads with this priority")
	cmd.Flags().StringVar(&filter.assignee, "assignee", "", "Only leads assigned to this member id")
	cmd.Flags().StringVar(&filter.search, "search", "", "Substring of name, phone, or email")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func newBulkDeleteCmd() *cobra.Command {
	var tenant, idsFile string

	cmd := &cobra.Command{
		Use:   "bulk-delete [id...]",
		Short: "Delete leads by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}
			ids, err := collectIDs(args, idsFile, cmd.InOrStdin())
			if err != nil {
				return withCode(exitUsage, err)
			}

			return withService(cmd.Context(), func(svc *core.Service) error {
				result, err := svc.BulkDelete(cmd.Context(), tenantID, ids)
				if err != nil {
					return classify(err)
				}
				return printBatchResult(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant UUID (required)")
	cmd.Flags().StringVar(&idsFile, "ids-file", "", `File with one id per line, "-" for stdin`)
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func newBulkAssignCmd() *cobra.Command {
	var tenant, assignee, idsFile string

	cmd := &cobra.Command{
		Use:   "bulk-assign [id...]",
		Short: "Assign leads to a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}
			ids, err := collectIDs(args, idsFile, cmd.InOrStdin())
			if err != nil {
				return withCode(exitUsage, err)
			}

			return withService(cmd.Context(), func(svc *core.Service) error {
				result, err := svc.BulkAssign(cmd.Context(), tenantID, ids, assignee)
				if err != nil {
					return classify(err)
				}
				return printBatchResult(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant UUID (required)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Member id to assign (required)")
	cmd.Flags().StringVar(&idsFile, "ids-file", "", `File with one id per line, "-" for stdin`)
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("assignee")
	return cmd
}

// collectIDs merges positional ids with ids read from file, skipping blank
// lines and # comments. Order is kept and repeats are not removed.
func collectIDs(args []string, file string, stdin io.Reader) ([]string, error) {
	ids := append([]string(nil), args...)
	if file == "" {
		return ids, nil
	}

	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open ids file: %w", err)
		}
		defer f.Close()
		r = f
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ids: %w", err)
	}
	return ids, nil
}

func printBatchResult(w io.Writer, r *core.BatchOperationResult) error {
	fmt.Fprintf(w, "%s: %d ids, %d succeeded, %d failed\n", r.Operation, r.Total, r.Success, r.Failed)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s: %s\n", e.ID, e.Error)
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|version|force N",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"up", "down", "version", "force"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return database.RunMigrate(nil, cfg.Database.URL, args[0], args[1:])
		},
	}
}
