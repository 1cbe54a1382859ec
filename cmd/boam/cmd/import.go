package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/infra/database/postgres"
	pgvuln "github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/infra/database/postgres/vuln"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/pkg/config"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/pkg/logger"
	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/service/feed"
)

var importDir string

// importCmd CVE 피드 JSON 일괄 임포트
var importCmd = &cobra.Command{
	Use:   "import-cves",
	Short: "CVE JSON 피드 디렉터리를 core.cves로 임포트",
	Long: `디렉터리의 CVE-*.json 파일을 읽어 core.cves에 upsert합니다.
구조가 깨진 파일은 건너뛰고 로그로 남깁니다.

Examples:
  go run ./cmd/boam import-cves --dir ~/data/run_20251125`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importDir, "dir", "", "directory containing CVE-*.json files (required)")
	importCmd.MarkFlagRequired("dir")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "boam-import",
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbPool.Close()

	importer := feed.NewImporter(pgvuln.NewImporter(dbPool.Pool))
	result, err := importer.ImportDir(ctx, importDir)
	if err != nil {
		return err
	}

	fmt.Printf("적용된 CVE 수: %d (건너뜀: %d / 전체 파일: %d)\n",
		result.Applied, result.Skipped, result.Files)
	return nil
}
