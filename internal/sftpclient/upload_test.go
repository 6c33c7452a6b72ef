package sftpclient

import (
	"context"
	"strings"
	"testing"
)

func TestUploadFileMissingCredentials(t *testing.T) {
	err := UploadFile(context.Background(), Config{}, "bundle.tar.br", "bundle.tar.br")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestUploadFileCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{
		Host: "results-drop.invalid",
		User: "uploader",
		Pass: "secret",
	}
	if err := UploadFile(ctx, cfg, "bundle.tar.br", "bundle.tar.br"); err == nil {
		t.Error("Expected error for canceled context")
	}
}
