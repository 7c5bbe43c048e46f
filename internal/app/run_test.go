package app

import (
	"io"
	"strings"
	"testing"
)

// TestRun_InitFailureWithMissingEnv は必須環境変数の欠如で起動が
// 失敗することをテストする。
func TestRun_InitFailureWithMissingEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_REDIRECT_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BASE_URL", "")

	err := Run(io.Discard, []string{"serve"})
	if err == nil {
		t.Fatal("Run should fail without required environment variables")
	}
	if !strings.Contains(err.Error(), "initialization failed") {
		t.Errorf("error = %v, want initialization failure", err)
	}
}

// TestRun_HealthcheckAgainstStoppedServer はサーバーが起動していない状態での
// healthcheckサブコマンドが失敗することをテストする。
func TestRun_HealthcheckAgainstStoppedServer(t *testing.T) {
	// 接続拒否を即時に発生させるため未使用ポートを指定する
	t.Setenv("SERVER_PORT", "1")

	if err := Run(io.Discard, []string{"healthcheck"}); err == nil {
		t.Fatal("healthcheck should fail when the server is not running")
	}
}
