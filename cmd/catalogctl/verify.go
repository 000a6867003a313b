package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"catalogapi/internal/asset"
	"catalogapi/internal/repository/postgres"
	"catalogapi/internal/storage"
)

var errMismatch = errors.New("asset rows and stored covers disagree")

func newVerifyCmd(e *env) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare asset rows with the stored cover files",
		Long: `Compare every asset row with the cover storage and report
rows whose file is missing and files no row points at.

Nothing is changed. A missing file heals when the same cover is uploaded again;
stray files can be removed by hand.

Exits non-zero when a mismatch is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			db, dialect, err := e.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			var blobs storage.Storage
			if e.cfg.Storage.Backend == "minio" {
				blobs, err = storage.NewMinIO(e.cfg.MinIO)
			} else {
				blobs, err = storage.NewLocal(e.cfg.Storage.UploadDir)
			}
			if err != nil {
				return fmt.Errorf("open cover storage: %w", err)
			}

			rep, err := asset.NewStore(blobs, e.log, nil).Verify(ctx, postgres.NewStore(db, dialect).Assets())
			if err != nil {
				return err
			}

			if jsonOut {
				err = printReportJSON(cmd.OutOrStdout(), rep)
			} else {
				printReport(cmd.OutOrStdout(), rep)
			}
			if err != nil {
				return err
			}
			if !rep.OK() {
				return errMismatch
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Machine-readable JSON output")
	return cmd
}

type reportJSON struct {
	Checked int      `json:"checked"`
	Missing []string `json:"missing"`
	Stray   []string `json:"stray"`
	OK      bool     `json:"ok"`
}

func printReportJSON(w io.Writer, rep *asset.Report) error {
	out := reportJSON{Checked: rep.Checked, Missing: []string{}, Stray: rep.Stray, OK: rep.OK()}
	for _, a := range rep.Missing {
		out.Missing = append(out.Missing, a.StoredName)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printReport(w io.Writer, rep *asset.Report) {
	fmt.Fprintf(w, "checked %d asset rows\n", rep.Checked)
	for _, a := range rep.Missing {
		fmt.Fprintf(w, "%s asset %d (%s): file missing\n", color.RedString("✗"), a.ID, a.StoredName)
	}
	for _, k := range rep.Stray {
		fmt.Fprintf(w, "%s %s: no asset row\n", color.YellowString("?"), k)
	}
	if rep.OK() {
		fmt.Fprintln(w, color.GreenString("✓"), "rows and files match")
		return
	}
	fmt.Fprintf(w, "%d missing, %d stray\n", len(rep.Missing), len(rep.Stray))
}
