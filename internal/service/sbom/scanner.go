package sbom

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Config holds scanner settings.
type Config struct {
	ToolPath string // sbom-tool binary (PATH lookup when bare name)
	WorkDir  string // root for per-job directories
	Timeout  time.Duration
}

// DefaultConfig returns the production scanner configuration.
func DefaultConfig() Config {
	return Config{
		ToolPath: "sbom-tool",
		WorkDir:  os.TempDir(),
		Timeout:  5 * time.Minute,
	}
}

// Report is the result of one environment scan.
type Report struct {
	Project     ProjectInfo `json:"project"`
	StoragePath string      `json:"storage_path"`
	Summary     ScanSummary `json:"summary"`
	Components  []Component `json:"components"`
}

// ProjectInfo is the document-level metadata of the generated SBOM.
type ProjectInfo struct {
	Name              string `json:"name"`
	SPDXID            string `json:"spdx_id"`
	DocumentNamespace string `json:"document_namespace"`
}

// ScanSummary carries scan-level counters.
type ScanSummary struct {
	ComponentCount int `json:"component_count"`
}

// Scanner runs sbom-tool over uploaded project archives.
type Scanner struct {
	runner CommandRunner
	cfg    Config
}

// NewScanner creates a scanner. A nil runner gets the real ExecRunner.
func NewScanner(runner CommandRunner, cfg Config) *Scanner {
	if runner == nil {
		runner = ExecRunner{}
	}
	if cfg.ToolPath == "" {
		cfg.ToolPath = DefaultConfig().ToolPath
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = DefaultConfig().WorkDir
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Scanner{runner: runner, cfg: cfg}
}

// Scan stores the uploaded archive, extracts it, runs sbom-tool over the
// project tree and returns the parsed component list. The per-job directory
// is kept for later CVE matching and returned as storage_path.
func (s *Scanner) Scan(ctx context.Context, uploadName string, upload io.Reader) (*Report, error) {
	jobID := uuid.New().String()
	jobDir := filepath.Join(s.cfg.WorkDir, "envScan", time.Now().Format("20060102_150405")+"_"+jobID)

	projectDir := filepath.Join(jobDir, "project")
	manifestRoot := filepath.Join(jobDir, "sbom-out")
	for _, dir := range []string{projectDir, manifestRoot} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create scan dir: %w", err)
		}
	}

	archivePath := filepath.Join(jobDir, "input"+filepath.Ext(uploadName))
	if err := saveUpload(archivePath, upload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	if err := Extract(archivePath, uploadName, projectDir); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	namespaceBase := "https://systemboam.kro.kr/sbom/" + jobID
	packageName := uploadName
	if packageName == "" {
		packageName = "user-upload"
	}

	log.Info().
		Str("job_id", jobID).
		Str("upload", uploadName).
		Msg("🔍 Environment scan started")

	_, err := s.runner.Run(ctx, jobDir, s.cfg.ToolPath,
		"generate",
		"-b", projectDir,
		"-bc", projectDir,
		"-pn", packageName,
		"-pv", "1.0.0",
		"-ps", "UserUpload",
		"-nsb", namespaceBase,
		"-m", manifestRoot,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	manifestPath, err := findManifest(manifestRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	manifest, err := ParseManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	components := manifest.Components()

	log.Info().
		Str("job_id", jobID).
		Int("components", len(components)).
		Msg("✅ Environment scan completed")

	return &Report{
		Project: ProjectInfo{
			Name:              manifest.Name,
			SPDXID:            manifest.SPDXID,
			DocumentNamespace: manifest.DocumentNamespace,
		},
		StoragePath: jobDir,
		Summary:     ScanSummary{ComponentCount: len(components)},
		Components:  components,
	}, nil
}

func saveUpload(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, r)
	return err
}

// findManifest locates manifest.spdx.json under root.
// Default layout: {root}/_manifest/spdx_2.2/manifest.spdx.json
func findManifest(root string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "manifest.spdx.json" {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("manifest.spdx.json not found under %s", root)
	}
	return found, nil
}
