package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogapi/internal/asset"
	"catalogapi/internal/model"
)

func TestPrintReport(t *testing.T) {
	color.NoColor = true

	t.Run("clean", func(t *testing.T) {
		var buf bytes.Buffer
		printReport(&buf, &asset.Report{Checked: 2, Missing: []model.Asset{}, Stray: []string{}})
		assert.Equal(t, "checked 2 asset rows\n✓ rows and files match\n", buf.String())
	})

	t.Run("mismatch", func(t *testing.T) {
		var buf bytes.Buffer
		printReport(&buf, &asset.Report{
			Checked: 2,
			Missing: []model.Asset{{ID: 4, StoredName: "cover-aa.png"}},
			Stray:   []string{"old-bb.png"},
		})
		out := buf.String()
		assert.Contains(t, out, "✗ asset 4 (cover-aa.png): file missing")
		assert.Contains(t, out, "? old-bb.png: no asset row")
		assert.Contains(t, out, "1 missing, 1 stray")
	})
}

func TestPrintReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReportJSON(&buf, &asset.Report{
		Checked: 1,
		Missing: []model.Asset{{ID: 4, StoredName: "cover-aa.png"}},
		Stray:   []string{},
	}))

	var got reportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, reportJSON{Checked: 1, Missing: []string{"cover-aa.png"}, Stray: []string{}, OK: false}, got)
}

func TestRootCmd_InMemoryDatabaseRefused(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "")

	for _, sub := range []string{"migrate", "verify"} {
		t.Run(sub, func(t *testing.T) {
			root := newRootCmd()
			var stderr bytes.Buffer
			root.SetErr(&stderr)
			root.SetArgs([]string{sub, "--no-color"})

			err := root.Execute()
			assert.ErrorContains(t, err, "without DB_PATH")
		})
	}
}

func TestRootCmd_MigrateSQLiteFile(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "catalog.db"))

	for i := 0; i < 2; i++ {
		root := newRootCmd()
		var stdout bytes.Buffer
		root.SetOut(&stdout)
		root.SetArgs([]string{"migrate", "--no-color"})

		require.NoError(t, root.Execute())
		assert.Contains(t, stdout.String(), "schema is up to date")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "verify")
}
