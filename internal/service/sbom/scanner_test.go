package sbom

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const testManifest = `{
	"name": "sample-project 1.0.0",
	"SPDXID": "SPDXRef-DOCUMENT",
	"documentNamespace": "https://systemboam.kro.kr/sbom/test",
	"packages": [
		{
			"SPDXID": "SPDXRef-Package-A",
			"name": "left-pad",
			"versionInfo": "1.3.0",
			"licenseConcluded": "MIT",
			"externalRefs": [
				{"referenceType": "purl", "referenceLocator": "pkg:npm/left-pad@1.3.0"},
				{"referenceType": "cpe23Type", "referenceLocator": "cpe:2.3:a:left-pad:left-pad:1.3.0:*:*:*:*:*:*:*"}
			]
		},
		{
			"SPDXID": "SPDXRef-Package-B",
			"name": "no-refs",
			"versionInfo": "0.1.0"
		}
	]
}`

// fakeRunner pretends to be sbom-tool: it drops a manifest into the -m
// directory instead of running anything.
type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, f.err
	}

	manifestRoot := ""
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-m" {
			manifestRoot = args[i+1]
		}
	}
	outDir := filepath.Join(manifestRoot, "_manifest", "spdx_2.2")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}
	return nil, os.WriteFile(filepath.Join(outDir, "manifest.spdx.json"), []byte(testManifest), 0644)
}

func makeZip(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	path := filepath.Join(dir, "project.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write zip file: %v", err)
	}
	return path
}

func TestScan(t *testing.T) {
	t.Run("zip upload produces component report", func(t *testing.T) {
		workDir := t.TempDir()
		zipPath := makeZip(t, t.TempDir(), map[string]string{
			"package.json": `{"name":"sample"}`,
		})

		runner := &fakeRunner{}
		scanner := NewScanner(runner, Config{WorkDir: workDir})

		f, err := os.Open(zipPath)
		if err != nil {
			t.Fatalf("open zip: %v", err)
		}
		defer f.Close()

		report, err := scanner.Scan(context.Background(), "project.zip", f)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		if report.Project.Name != "sample-project 1.0.0" {
			t.Errorf("project name = %q", report.Project.Name)
		}
		if report.Summary.ComponentCount != 2 {
			t.Errorf("component count = %d, want 2", report.Summary.ComponentCount)
		}
		if len(report.Components) != 2 {
			t.Fatalf("components = %d, want 2", len(report.Components))
		}

		first := report.Components[0]
		if first.PURL != "pkg:npm/left-pad@1.3.0" {
			t.Errorf("purl = %q", first.PURL)
		}
		if first.CPE == "" {
			t.Errorf("cpe missing")
		}
		if first.Licenses.Concluded != "MIT" {
			t.Errorf("license concluded = %q", first.Licenses.Concluded)
		}

		second := report.Components[1]
		if second.PURL != "" || second.CPE != "" {
			t.Errorf("package without refs should have empty locators: %+v", second)
		}

		if !strings.HasPrefix(report.StoragePath, workDir) {
			t.Errorf("storage path %q outside work dir", report.StoragePath)
		}
	})

	t.Run("sbom-tool invoked with generate arguments", func(t *testing.T) {
		runner := &fakeRunner{}
		scanner := NewScanner(runner, Config{WorkDir: t.TempDir()})

		zipPath := makeZip(t, t.TempDir(), map[string]string{"go.mod": "module x"})
		f, _ := os.Open(zipPath)
		defer f.Close()

		if _, err := scanner.Scan(context.Background(), "project.zip", f); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}

		if len(runner.calls) != 1 {
			t.Fatalf("runner calls = %d, want 1", len(runner.calls))
		}
		call := strings.Join(runner.calls[0], " ")
		for _, want := range []string{"sbom-tool generate", "-ps UserUpload", "-pv 1.0.0", "-pn project.zip"} {
			if !strings.Contains(call, want) {
				t.Errorf("command %q missing %q", call, want)
			}
		}
	})

	t.Run("tool failure maps to ErrScanFailed", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("exit status 2")}
		scanner := NewScanner(runner, Config{WorkDir: t.TempDir()})

		zipPath := makeZip(t, t.TempDir(), map[string]string{"a.txt": "x"})
		f, _ := os.Open(zipPath)
		defer f.Close()

		_, err := scanner.Scan(context.Background(), "project.zip", f)
		if !errors.Is(err, ErrScanFailed) {
			t.Errorf("err = %v, want ErrScanFailed", err)
		}
	})

	t.Run("unsupported upload extension rejected", func(t *testing.T) {
		scanner := NewScanner(&fakeRunner{}, Config{WorkDir: t.TempDir()})

		_, err := scanner.Scan(context.Background(), "project.rar", strings.NewReader("not an archive"))
		if !errors.Is(err, ErrUnsupportedArchive) {
			t.Errorf("err = %v, want ErrUnsupportedArchive", err)
		}
	})
}

func TestExtract(t *testing.T) {
	t.Run("zip entries land under dest", func(t *testing.T) {
		dest := t.TempDir()
		zipPath := makeZip(t, t.TempDir(), map[string]string{
			"src/main.go":  "package main",
			"package.json": "{}",
		})

		if err := Extract(zipPath, "upload.zip", dest); err != nil {
			t.Fatalf("Extract() error = %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dest, "src", "main.go"))
		if err != nil {
			t.Fatalf("extracted file missing: %v", err)
		}
		if string(data) != "package main" {
			t.Errorf("content = %q", data)
		}
	})

	t.Run("zip entry escaping dest is rejected", func(t *testing.T) {
		dest := t.TempDir()
		zipPath := makeZip(t, t.TempDir(), map[string]string{
			"../evil.txt": "pwned",
		})

		if err := Extract(zipPath, "upload.zip", dest); err == nil {
			t.Fatal("Extract() accepted a traversal entry")
		}
	})

	t.Run("tar.gz extraction", func(t *testing.T) {
		dir := t.TempDir()
		dest := t.TempDir()

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		tw := tar.NewWriter(gz)
		content := []byte("module sample")
		if err := tw.WriteHeader(&tar.Header{
			Name:     "go.mod",
			Mode:     0644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}); err != nil {
			t.Fatalf("tar header: %v", err)
		}
		if _, err := tw.Write(content); err != nil {
			t.Fatalf("tar write: %v", err)
		}
		tw.Close()
		gz.Close()

		path := filepath.Join(dir, "project.tar.gz")
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			t.Fatalf("write archive: %v", err)
		}

		if err := Extract(path, "project.tar.gz", dest); err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dest, "go.mod"))
		if err != nil {
			t.Fatalf("extracted file missing: %v", err)
		}
		if string(data) != "module sample" {
			t.Errorf("content = %q", data)
		}
	})
}

func TestDecodeManifest(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		if _, err := DecodeManifest(strings.NewReader("{not json")); err == nil {
			t.Fatal("DecodeManifest() accepted malformed input")
		}
	})

	t.Run("empty packages", func(t *testing.T) {
		m, err := DecodeManifest(strings.NewReader(`{"name":"x","packages":[]}`))
		if err != nil {
			t.Fatalf("DecodeManifest() error = %v", err)
		}
		if got := m.Components(); len(got) != 0 {
			t.Errorf("components = %d, want 0", len(got))
		}
	})
}
