package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/estatecrm/internal/core"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
	assert.Equal(t, exitUsage, exitCode(withCode(exitUsage, errors.New("bad flag"))))
	assert.Equal(t, exitValidation, exitCode(fmt.Errorf("wrapped: %w", withCode(exitValidation, errors.New("x")))))
	assert.NoError(t, withCode(exitUsage, nil))
}

func TestClassify(t *testing.T) {
	err := classify(fmt.Errorf("%w: line 3", core.ErrMalformedCSV))
	assert.Equal(t, exitValidation, exitCode(err))
	assert.Contains(t, err.Error(), "IMP004")
	assert.ErrorIs(t, err, core.ErrMalformedCSV)

	assert.Equal(t, exitFailure, exitCode(classify(errors.New("connection refused"))))
	assert.NoError(t, classify(nil))
}

func TestUsageErrorsBeforeDatabase(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"import bad tenant", []string{"import", "--tenant", "acme", "--file", "x.csv"}},
		{"import bad policy", []string{"import", "--tenant", "6f1c1e2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b", "--file", "x.csv", "--policy", "merge"}},
		{"import missing file", []string{"import", "--tenant", "6f1c1e2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b", "--file", "/does/not/exist.csv"}},
		{"export bad filter", []string{"export", "--tenant", "6f1c1e2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b", "--status", "archived"}},
		{"bulk-delete bad tenant", []string{"bulk-delete", "--tenant", "x", "id-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitUsage, exitCode(err), "error: %v", err)
		})
	}
}

func TestMigrateNeedsCommand(t *testing.T) {
	_, err := run(t, "migrate")
	assert.Error(t, err)
}

func TestCollectIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("lead-2\n\n# comment\n lead-3 \nlead-1\n"), 0o644))

	ids, err := collectIDs([]string{"lead-1"}, path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"lead-1", "lead-2", "lead-3", "lead-1"}, ids)

	ids, err = collectIDs(nil, "-", strings.NewReader("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, err = collectIDs(nil, filepath.Join(dir, "missing"), nil)
	assert.Error(t, err)
}

func TestPrintImportResult(t *testing.T) {
	r := &core.ImportResult{
		ImportID: "imp-1",
		Policy:   core.PolicyReject,
		Total:    3,
		Success:  2,
		Failed:   1,
		Created:  2,
		Errors:   []core.ItemError{{Row: 3, Error: "Duplicate phone number: +998901"}},
	}

	var buf bytes.Buffer
	require.NoError(t, printImportResult(&buf, r, false))
	assert.Equal(t,
		"import imp-1 (reject): 3 rows, 2 created, 0 updated, 0 skipped, 1 failed\n"+
			"  line 3: Duplicate phone number: +998901\n",
		buf.String())

	buf.Reset()
	require.NoError(t, printImportResult(&buf, r, true))
	assert.Contains(t, buf.String(), `"importId": "imp-1"`)
}

func TestPrintBatchResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printBatchResult(&buf, &core.BatchOperationResult{
		Operation: core.OperationDelete,
		Total:     2,
		Success:   1,
		Failed:    1,
		Errors:    []core.ItemError{{ID: "lead-9", Error: "Lead not found"}},
	}))
	assert.Equal(t, "delete: 2 ids, 1 succeeded, 1 failed\n  lead-9: Lead not found\n", buf.String())
}
