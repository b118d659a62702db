package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	"github.com/msto63/scriptfront/foundation/utils/stringx"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/internal/tui/auditview"
)

var (
	auditLimit     int
	auditStatus    string
	auditTransport string
	auditPrune     time.Duration
	auditStats     bool
	auditJSON      bool
	auditTUI       bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the request audit log",
	Long: `Lists recent audit records of the front end, shows summary statistics
or removes old records.

Examples:
  scriptfront audit --limit 50
  scriptfront audit --status rejected
  scriptfront audit --stats
  scriptfront audit --prune 720h
  scriptfront audit --tui`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "number of records to list")
	auditCmd.Flags().StringVar(&auditStatus, "status", "", "only records with this status: ok, rejected or failed")
	auditCmd.Flags().StringVar(&auditTransport, "transport", "", "only records of this transport: grpc, http, websocket or cli")
	auditCmd.Flags().DurationVar(&auditPrune, "prune", 0, "remove records older than this duration")
	auditCmd.Flags().BoolVar(&auditStats, "stats", false, "show statistics instead of records")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "print JSON")
	auditCmd.Flags().BoolVar(&auditTUI, "tui", false, "open the interactive audit viewer")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	path := appConfig.Audit.Path
	if _, err := os.Stat(path); err != nil {
		return sferror.Newf("no audit log at %s", path).
			WithCode(sferror.CodeNotFound).
			WithDetail("path", path)
	}

	store, err := audit.NewSQLiteStore(audit.SQLiteConfig{Path: path})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	switch {
	case auditTUI:
		return auditview.Run(auditview.Config{
			Store:      store,
			Source:     path,
			MaxRecords: auditview.DefaultConfig().MaxRecords,
		})

	case auditPrune > 0:
		removed, err := store.Prune(ctx, auditPrune)
		if err != nil {
			return err
		}
		if err := store.Vacuum(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "removed %d record(s) older than %s\n", removed, auditPrune)
		return nil

	case auditStats:
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		if auditJSON {
			return encodeJSON(out, stats)
		}
		printAuditStats(out, stats)
		return nil
	}

	records, err := store.Query(ctx, audit.Filter{
		Status:    audit.Status(auditStatus),
		Transport: auditTransport,
		Limit:     auditLimit,
	})
	if err != nil {
		return err
	}
	if auditJSON {
		return encodeJSON(out, records)
	}
	printAuditRecords(out, records)
	return nil
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAuditRecords(w io.Writer, records []*audit.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no records")
		return
	}

	fmt.Fprintln(w, tableHeaderStyle.Render(
		stringx.PadRight("TIME", 20)+" "+
			stringx.PadRight("TRANSPORT", 10)+" "+
			stringx.PadRight("OP", 9)+" "+
			stringx.PadRight("STATUS", 9)+" "+
			stringx.PadRight("NODES", 6)+" "+
			stringx.PadRight("DURATION", 10)+" ERROR"))

	for _, r := range records {
		errText := "-"
		if r.ErrorCode != "" {
			errText = r.ErrorCode + " " + stringx.Preview(r.ErrorMessage, 60)
		}
		fmt.Fprintln(w,
			tablePosStyle.Render(stringx.PadRight(r.CreatedAt.Local().Format("2006-01-02 15:04:05"), 20))+" "+
				stringx.PadRight(r.Transport, 10)+" "+
				stringx.PadRight(r.Operation, 9)+" "+
				tableKindStyle.Render(stringx.PadRight(string(r.Status), 9))+" "+
				stringx.PadRight(strconv.Itoa(r.NodeCount), 6)+" "+
				stringx.PadRight(r.Duration.String(), 10)+" "+
				errText)
	}
}

func printAuditStats(w io.Writer, stats *audit.Stats) {
	fmt.Fprintf(w, "records:      %d\n", stats.Total)
	fmt.Fprintf(w, "avg duration: %.0fus\n", stats.AvgDurationUS)
	if !stats.LastRecord.IsZero() {
		fmt.Fprintf(w, "last record:  %s\n", stats.LastRecord.Local().Format(time.RFC3339))
	}

	printCounts(w, "by status", func(add func(string, int64)) {
		for k, v := range stats.ByStatus {
			add(string(k), v)
		}
	})
	printCounts(w, "by transport", func(add func(string, int64)) {
		for k, v := range stats.ByTransport {
			add(k, v)
		}
	})
	printCounts(w, "by error code", func(add func(string, int64)) {
		for k, v := range stats.ByErrorCode {
			add(k, v)
		}
	})
}

// printCounts prints a sorted count section; empty sections are skipped
func printCounts(w io.Writer, title string, collect func(add func(string, int64))) {
	counts := make(map[string]int64)
	collect(func(k string, v int64) { counts[k] = v })
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, tableHeaderStyle.Render(title+":"))
	for _, k := range keys {
		fmt.Fprintf(w, "  %s %d\n", stringx.PadRight(k, 24), counts[k])
	}
}
