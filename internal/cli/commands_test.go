package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tutorbook/internal/backend"
	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/testutil"
)

// cliFixture runs commands against one temporary database with a frozen
// clock and sequential ids shared across invocations.
type cliFixture struct {
	t     *testing.T
	db    string
	clock *testutil.FixedClock
	ids   *testutil.SequenceIDs
	stdin io.Reader
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	return &cliFixture{
		t:     t,
		db:    filepath.Join(t.TempDir(), "tutorbook.db"),
		clock: testutil.NewFixedClock(2024, time.May, 15),
		ids:   testutil.NewSequenceIDs(),
	}
}

func (f *cliFixture) run(args ...string) (string, error) {
	f.t.Helper()
	cmd := newRootCommand(&RootOptions{Clock: f.clock, IDs: f.ids})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	if f.stdin != nil {
		cmd.SetIn(f.stdin)
	}
	cmd.SetArgs(append([]string{"--db", f.db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (f *cliFixture) mustRun(args ...string) string {
	f.t.Helper()
	out, err := f.run(args...)
	require.NoError(f.t, err, "tutorbook %s", strings.Join(args, " "))
	return out
}

func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var resp struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp.CLIResponse
}

func TestStudentCommands(t *testing.T) {
	f := newCLIFixture(t)

	out := f.mustRun("student", "add", "--id", "S010", "--name", "Le Van C", "--class", "C001")
	assert.Equal(t, "Added student S010\n", out)

	out = f.mustRun("student", "list")
	assert.Contains(t, out, "S010")
	assert.Contains(t, out, "Le Van C")
	assert.Contains(t, out, "-400,000")

	f.mustRun("student", "update", "S010", "--id", "S011", "--phone", "0901")

	var students []model.Student
	resp := decodeResponse(t, f.mustRun("--format", "json", "student", "list", "--status", "ACTIVE"), &students)
	assert.Equal(t, "ok", resp.Status)
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []string{"S001", "S002", "S011"}, ids)
	assert.Equal(t, "0901", students[2].Phone)
	assert.Equal(t, "2024-05-15", students[2].CreatedAt)

	_, err := f.run("student", "delete", "S404")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, model.IsNotFound(err))

	_, err = f.run("student", "add", "--id", "S001", "--name", "Again")
	require.Error(t, err)
	assert.True(t, model.IsDuplicateID(err))
}

func TestStudentUpdate_KeepsClassesWithoutFlag(t *testing.T) {
	f := newCLIFixture(t)
	f.mustRun("student", "update", "S002", "--id", "S020")

	f.mustRun("invoice", "generate", "2024-04")
	out := f.mustRun("invoice", "list", "--month", "2024-04")
	assert.Contains(t, out, "INV-SEED-002  S020")
	assert.Contains(t, out, "400,000")
}

func TestTeacherAndClassCommands(t *testing.T) {
	f := newCLIFixture(t)

	f.mustRun("teacher", "add", "--id", "T003", "--name", "Tran Thi D", "--salary-type", "PER_SESSION", "--rate", "250000")
	f.mustRun("class", "add", "--id", "C003", "--name", "IELTS", "--fee-type", "PER_SESSION", "--fee", "150000",
		"--teacher", "T003", "--student", "S001")
	f.mustRun("class", "update", "C003", "--id", "C004")
	f.mustRun("attendance", "set", "--class", "C004", "--date", "2024-05-03", "--mark", "S001=PRESENT")

	out := f.mustRun("payroll", "generate", "2024-05")
	assert.Contains(t, out, "PAY-T003-2024-05")
	assert.Contains(t, out, "250,000")

	f.mustRun("teacher", "update", "T003", "--id", "T004")
	f.mustRun("teacher", "delete", "T004")
	f.mustRun("class", "delete", "C004")

	_, err := f.run("teacher", "add", "--id", "T005", "--name", "X", "--rate", "lots")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = f.run("class", "delete", "C004")
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestInvoiceAndLedgerCommands(t *testing.T) {
	f := newCLIFixture(t)

	out := f.mustRun("invoice", "generate", "2024-05")
	assert.Equal(t, "Invoices for 2024-05: 1 created, 0 updated\n", out)

	out = f.mustRun("invoice", "list", "--month", "2024-05")
	assert.Contains(t, out, "INV-0001")
	assert.Contains(t, out, "1,200,000")
	assert.Contains(t, out, "UNPAID")

	out = f.mustRun("ledger", "adjust", "--student", "S001", "--amount", "1200000", "--description", "Cash")
	assert.Equal(t, "Posted TRX-0002 1,200,000 to S001\n", out)

	f.mustRun("invoice", "pay", "INV-0001")
	out = f.mustRun("ledger", "audit")
	assert.Contains(t, out, "Ledger is consistent")

	_, err := f.run("invoice", "cancel", "INV-0001")
	require.Error(t, err)
	assert.True(t, model.IsInvalidTransition(err))

	f.mustRun("ledger", "delete", "TRX-0002")
	var students []model.Student
	decodeResponse(t, f.mustRun("--format", "json", "student", "list"), &students)
	assert.Equal(t, "-1200000", students[0].Balance.String())
}

func TestAttendanceThenInvoices(t *testing.T) {
	f := newCLIFixture(t)

	out := f.mustRun("attendance", "set", "--class", "C002", "--date", "2024-05-07", "--mark", "S001=PRESENT", "--mark", "S002=LATE")
	assert.Equal(t, "Recorded 2 marks for C002 on 2024-05-07\n", out)

	out = f.mustRun("invoice", "generate", "2024-05")
	assert.Equal(t, "Invoices for 2024-05: 2 created, 0 updated\n", out)

	f.mustRun("attendance", "clear-date", "--class", "C002", "--date", "2024-05-07")
	out = f.mustRun("invoice", "generate", "2024-05")
	assert.Equal(t, "Invoices for 2024-05: 0 created, 2 updated\n", out)

	f.mustRun("attendance", "clear-month", "2024-04")

	_, err := f.run("attendance", "clear-month", "May")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLedgerAudit_ReportsUnsyncedInvoice(t *testing.T) {
	f := newCLIFixture(t)
	f.mustRun("ledger", "edit", "TRX-SEED-003", "--amount", "-300000")

	out, err := f.run("ledger", "audit")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ invoice INV-SEED-002 no longer matches its transaction")
}

func TestLedgerAdjust_Rejects(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run("ledger", "adjust", "--student", "S001", "--amount", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = f.run("ledger", "adjust", "--student", "S001", "--amount", "10", "--direction", "sideways")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, model.ErrCodeInvalidRecord, model.CodeOf(err))

	_, err = f.run("ledger", "clear")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	f.mustRun("ledger", "clear", "--yes")
	out := f.mustRun("invoice", "list")
	assert.Equal(t, "ID  STUDENT  MONTH  AMOUNT  STATUS\n", out)
}

func TestJSONErrorResponse(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run("--format", "json", "invoice", "cancel", "INV-SEED-001")
	require.Error(t, err)

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)
}

func TestReportMonth(t *testing.T) {
	f := newCLIFixture(t)

	out := f.mustRun("report", "month", "2024-04")
	assert.Contains(t, out, "Month:")
	assert.Contains(t, out, "2024-04")
	assert.Contains(t, out, "-2,950,000")
}

func TestBackupCommands(t *testing.T) {
	f := newCLIFixture(t)
	path := filepath.Join(t.TempDir(), "backup.json")

	out := f.mustRun("backup", "export", "-o", path)
	assert.Equal(t, "Wrote backup to "+path+"\n", out)

	f.mustRun("student", "delete", "S003")
	f.mustRun("backup", "restore", path)
	assert.Contains(t, f.mustRun("student", "list"), "S003")

	f.stdin = strings.NewReader(`{"students": [{"id": "S030", "name": "From Stdin", "balance": 0}]}`)
	assert.Equal(t, "Backup restored\n", f.mustRun("backup", "restore", "-"))
	f.stdin = nil
	assert.Contains(t, f.mustRun("student", "list"), "From Stdin")

	f.stdin = strings.NewReader(`[1, 2]`)
	_, err := f.run("backup", "restore", "-")
	require.Error(t, err)
	assert.True(t, model.IsParseError(err))
}

func TestStorageCommands(t *testing.T) {
	f := newCLIFixture(t)

	out := f.mustRun("storage", "status")
	assert.Equal(t, "Backend: FALLBACK ("+f.db+")\n", out)

	_, err := f.run("storage", "to-file", filepath.Join(t.TempDir(), "data.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrFileHandlesUnsupported))

	f.mustRun("storage", "to-fallback")

	_, err = f.run("storage", "reset")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	f.mustRun("student", "delete", "S001")
	f.mustRun("storage", "reset", "--yes")
	assert.Contains(t, f.mustRun("student", "list"), "S001")
}

func TestStorageCommands_FileRoundTrip(t *testing.T) {
	f := newCLIFixture(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "tutorbook.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("file_handles: true\n"), 0644))
	data := filepath.Join(dir, "data.json")

	assert.Equal(t, "Data moved to "+data+"\n", f.mustRun("--config", cfg, "storage", "to-file", data))
	assert.Equal(t, "Backend: FILE_HANDLE ("+data+")\n", f.mustRun("--config", cfg, "storage", "status"))
	assert.FileExists(t, data)

	f.mustRun("--config", cfg, "student", "delete", "S003")
	f.mustRun("--config", cfg, "storage", "to-fallback")
	assert.Equal(t, "Backend: FALLBACK ("+f.db+")\n", f.mustRun("--config", cfg, "storage", "status"))
	assert.NotContains(t, f.mustRun("--config", cfg, "student", "list"), "S003")
}

func TestStorageCommands_FileHandlesDisabledAfterMove(t *testing.T) {
	f := newCLIFixture(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "tutorbook.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("file_handles: true\n"), 0644))
	data := filepath.Join(dir, "data.json")

	f.mustRun("--config", cfg, "storage", "to-file", data)
	f.mustRun("--config", cfg, "student", "delete", "S003")

	_, err := f.run("student", "list")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, model.IsPermissionError(err))

	f.mustRun("storage", "to-fallback")
	out := f.mustRun("student", "list")
	assert.Contains(t, out, "S001")
	assert.NotContains(t, out, "S003")
}

func TestClearCommand(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run("clear", "widgets")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = f.run("clear", "invoices")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Equal(t, "Cleared students\n", f.mustRun("clear", "students"))
	assert.Equal(t, "ID  NAME  STATUS  BALANCE\n", f.mustRun("student", "list"))
}

func TestOpenApp_ConfigErrors(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run("--config", filepath.Join(t.TempDir(), "missing.yaml"), "storage", "status")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}
