package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"contactmerge/internal/fileutil"
)

type cliTestEnv struct {
	dir        string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("CONTACTMERGE_THRESHOLD", "")
	t.Setenv("CONTACTMERGE_LOG_LEVEL", "")
	return &cliTestEnv{dir: base, configPath: filepath.Join(base, "contactmerge.toml")}
}

func (e *cliTestEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func (e *cliTestEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

const duplicatesCSV = `fn,tel,email
Ada Lovelace,555-1234,
Ada Lovelace,555 1234,ada@example.com
Alan Turing,,alan@bletchley.uk
`

func TestDedupeLinkModeWritesAnnotations(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.writeFile(t, "contacts.csv", duplicatesCSV)
	out := env.path("linked.csv")

	stdout, _, err := runCLI(t, []string{"dedupe", "--input-file", in, "--output-file", out, "--threshold", "85"}, env.configPath)
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	requireContains(t, stdout, "Exported 3 contacts to CSV: "+out)

	want := "match,certainty,fn,tel,email\n" +
		"0,100.00,Ada Lovelace,555-1234,\n" +
		"0,100.00,Ada Lovelace,555 1234,ada@example.com\n" +
		",,Alan Turing,,alan@bletchley.uk\n"
	if got := readFile(t, out); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestDedupeMergeToVCard(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.writeFile(t, "contacts.csv", duplicatesCSV)
	out := env.path("merged.vcf")

	stdout, _, err := runCLI(t, []string{"dedupe", "--input-file", in, "--output-file", out, "--merge", "--threshold", "85"}, env.configPath)
	if err != nil {
		t.Fatalf("dedupe --merge: %v", err)
	}
	requireContains(t, stdout, "Exported 2 contacts to VCF: "+out)

	got := readFile(t, out)
	want := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ada Lovelace\r\nTEL:555-1234\r\nEMAIL:ada@example.com\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Alan Turing\r\nEMAIL:alan@bletchley.uk\r\nEND:VCARD\r\n"
	if got != want {
		t.Fatalf("unexpected vcard output:\n%q\nwant:\n%q", got, want)
	}
}

func TestDedupeDryRunWritesNothing(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.writeFile(t, "contacts.csv", duplicatesCSV)
	out := env.path("never.csv")

	stdout, _, err := runCLI(t, []string{"dedupe", "--input-file", in, "--output-file", out, "--merge", "--dry-run", "--threshold", "85"}, env.configPath)
	if err != nil {
		t.Fatalf("dedupe --dry-run: %v", err)
	}
	requireContains(t, stdout, "DRY RUN: Would merge contact 1 into contact 0 with score 100.00 (phone 100.00, name 100.00)")
	requireContains(t, stdout, "Dry run complete. No changes have been made.")
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create output, stat err=%v", err)
	}
	if readFile(t, in) != duplicatesCSV {
		t.Fatal("dry run modified the input file")
	}
}

func TestDedupeDryRunJSONReport(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.writeFile(t, "contacts.csv", duplicatesCSV)

	stdout, _, err := runCLI(t, []string{"dedupe", "--input-file", in, "--merge", "--dry-run", "--report-format", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("dedupe --dry-run json: %v", err)
	}
	body, _, _ := strings.Cut(stdout, "Dry run complete.")
	var doc struct {
		RunID     string `json:"run_id"`
		DryRun    bool   `json:"dry_run"`
		Proposals []struct {
			Members []int `json:"members"`
		} `json:"proposals"`
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout)
	}
	if doc.RunID == "" || !doc.DryRun || len(doc.Proposals) != 1 || len(doc.Proposals[0].Members) != 2 {
		t.Fatalf("unexpected report: %+v", doc)
	}
}

func TestDedupeUsesConfigFile(t *testing.T) {
	env := setupCLITestEnv(t)
	config := "[dedupe]\nthreshold = 100.0\nmode = \"merge\"\n\n[fields]\nname = \"Full Name\"\nphone = \"Mobile\"\n"
	env.writeFile(t, "contactmerge.toml", config)
	in := env.writeFile(t, "contacts.csv", "Full Name,Mobile\nAda Lovelace,555 1234\nada lovelace,5551234\nGrace Hopper,555 0000\n")
	out := env.path("merged.csv")

	stdout, _, err := runCLI(t, []string{"dedupe", "--input-file", in, "--output-file", out}, env.configPath)
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	requireContains(t, stdout, "Exported 2 contacts to CSV")
	want := "Full Name,Mobile\nAda Lovelace,555 1234\nGrace Hopper,555 0000\n"
	if got := readFile(t, out); got != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestDedupeErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.writeFile(t, "contacts.csv", duplicatesCSV)
	empty := env.writeFile(t, "empty.csv", "fn,tel\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing output", []string{"dedupe", "--input-file", in}, "--output-file is required"},
		{"bad threshold", []string{"dedupe", "--input-file", in, "--output-file", env.path("o.csv"), "--threshold", "101"}, "invalid threshold"},
		{"unknown extension", []string{"dedupe", "--input-file", in, "--output-file", env.path("o.txt")}, "output format"},
		{"empty input", []string{"dedupe", "--input-file", empty, "--output-file", env.path("o.csv")}, "no contacts found"},
		{"missing input", []string{"dedupe", "--input-file", env.path("absent.csv"), "--output-file", env.path("o.csv")}, "open input"},
		{"bad report format", []string{"dedupe", "--input-file", in, "--merge", "--dry-run", "--report-format", "xml"}, "unknown report format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args, env.configPath)
			if err == nil {
				t.Fatal("expected error")
			}
			requireContains(t, err.Error(), tt.want)
		})
	}
}

func TestDedupeWarnsWhenOutputLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.writeFile(t, "contacts.csv", duplicatesCSV)
	out := env.path("linked.csv")

	held := flock.New(fileutil.LockPath(out))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("hold lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	_, stderr, err := runCLI(t, []string{"dedupe", "--input-file", in, "--output-file", out}, env.configPath)
	if !errors.Is(err, fileutil.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	requireContains(t, stderr, "output file is locked")
	requireContains(t, stderr, "event_type=output_locked")
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("locked run must not write output, stat err=%v", statErr)
	}
}

func TestConvertCSVToVCardAndBack(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.writeFile(t, "contacts.csv", "fn,tel,note\nAda Lovelace,555-1234,\"first, programmer\"\n")
	vcf := env.path("contacts.vcf")
	back := env.path("back.csv")

	stdout, _, err := runCLI(t, []string{"convert", "--input-file", in, "--output-file", vcf}, env.configPath)
	if err != nil {
		t.Fatalf("convert to vcf: %v", err)
	}
	requireContains(t, stdout, "Exported 1 contacts to VCF")

	if _, _, err := runCLI(t, []string{"convert", "--input-file", vcf, "--output-file", back}, env.configPath); err != nil {
		t.Fatalf("convert to csv: %v", err)
	}
	want := "version,fn,tel,note\n3.0,Ada Lovelace,555-1234,\"first, programmer\"\n"
	if got := readFile(t, back); got != want {
		t.Fatalf("unexpected round trip:\n%s", got)
	}
}

func TestLogsGoToStderr(t *testing.T) {
	env := setupCLITestEnv(t)
	in := env.writeFile(t, "contacts.csv", "fn,org\nAda,Analytical\n,Babbage Ltd\n")

	stdout, stderr, err := runCLI(t, []string{"--log-level", "debug", "dedupe", "--input-file", in, "--output-file", env.path("o.csv")}, env.configPath)
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	if strings.Contains(stdout, "deduplication complete") {
		t.Fatalf("log lines leaked to stdout: %q", stdout)
	}
	requireContains(t, stderr, "deduplication complete")
	requireContains(t, stderr, "contacts without phone, email, or name")
}
