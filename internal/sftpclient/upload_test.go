package sftpclient

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"course-validator/internal/config"
)

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.Config{
		SFTPHost:                  "sftp.test",
		SFTPPort:                  2222,
		SFTPUser:                  "u",
		SFTPPass:                  "p",
		SFTPDir:                   "/reports",
		SFTPKnownHosts:            "/etc/ssh/known_hosts",
		SFTPInsecureIgnoreHostKey: false,
	})

	if cfg.Host != "sftp.test" || cfg.Port != 2222 || cfg.RemoteDir != "/reports" {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.KnownHostsFile != "/etc/ssh/known_hosts" || cfg.InsecureIgnoreHostKey {
		t.Errorf("Unexpected host key settings %+v", cfg)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg, err := Config{Host: "h", User: "u", Pass: "p"}.withDefaults()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Port != 22 {
		t.Errorf("Expected default Port to be 22, got %d", cfg.Port)
	}
	if cfg.RemoteDir != "/" {
		t.Errorf("Expected default RemoteDir to be '/', got %q", cfg.RemoteDir)
	}

	if _, err := (Config{Host: "h"}).withDefaults(); err == nil {
		t.Error("Expected error for missing credentials")
	}
}

func TestHostKeyCallback(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatal(err)
	}

	knownHosts := filepath.Join(t.TempDir(), "known_hosts")
	line := knownhosts.Line([]string{knownhosts.Normalize("sftp.test:2222")}, sshPub)
	if err := os.WriteFile(knownHosts, []byte(line+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cb, err := hostKeyCallback(Config{KnownHostsFile: knownHosts})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	addr := &net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 2222}
	if err := cb("sftp.test:2222", addr, sshPub); err != nil {
		t.Errorf("Expected known host to be accepted, got %v", err)
	}
	if err := cb("other.test:2222", addr, sshPub); err == nil {
		t.Error("Expected unknown host to be rejected")
	}

	if _, err := hostKeyCallback(Config{KnownHostsFile: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("Expected error for missing known_hosts file")
	}
	if _, err := hostKeyCallback(Config{InsecureIgnoreHostKey: true}); err != nil {
		t.Errorf("Expected insecure callback, got %v", err)
	}
	if _, err := hostKeyCallback(Config{}); err == nil {
		t.Error("Expected error when host key checking has no known_hosts")
	}
}

func TestUploadFilesValidation(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		cfg           Config
		errorContains string
	}{
		{
			name:          "Missing credentials",
			cfg:           Config{},
			errorContains: "sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS",
		},
		{
			name:          "Host key checking without known_hosts",
			cfg:           Config{Host: "127.0.0.1", User: "u", Pass: "p"},
			errorContains: "no known_hosts file",
		},
		{
			name:          "Unreachable host",
			cfg:           Config{Host: "127.0.0.1", Port: 1, User: "u", Pass: "p", InsecureIgnoreHostKey: true},
			errorContains: "sftp: dial error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := UploadFiles(ctx, tc.cfg, []string{"report.csv"})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.errorContains) {
				t.Errorf("Expected error to contain %q, got %q", tc.errorContains, err.Error())
			}
		})
	}
}

func TestUploadFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 192.0.2.0/24 is reserved for documentation; the dial would hang until timeout.
	err := UploadFiles(ctx, Config{Host: "192.0.2.1", User: "u", Pass: "p", InsecureIgnoreHostKey: true}, nil)
	if err == nil || !strings.Contains(err.Error(), "dial canceled") {
		t.Errorf("Expected dial canceled error, got %v", err)
	}
}
