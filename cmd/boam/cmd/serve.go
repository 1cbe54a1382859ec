package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// serveCmd API 서버 실행
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 시작",
	Long: `API 서버를 시작합니다 (Signal Aggregation & Ranking Engine).

Examples:
  go run ./cmd/boam serve    # API 서버 시작 (Ctrl+C로 종료)`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 API 서버 시작...")

	apiCmd := exec.Command("go", "run", "./cmd/api")
	apiCmd.Stdout = os.Stdout
	apiCmd.Stderr = os.Stderr
	apiCmd.Env = os.Environ()

	if err := apiCmd.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("✅ API 서버 실행 중")
	fmt.Println("종료하려면 Ctrl+C를 누르세요")

	done := make(chan error, 1)
	go func() { done <- apiCmd.Wait() }()

	select {
	case <-sigCh:
		fmt.Println("\n🛑 종료 신호 수신, 서버 종료 중...")
		apiCmd.Process.Signal(syscall.SIGTERM)
		<-done
	case err := <-done:
		if err != nil {
			return fmt.Errorf("API server exited: %w", err)
		}
	}

	fmt.Println("✅ API 서버 종료 완료")
	return nil
}
