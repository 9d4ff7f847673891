//go:build integration
// +build integration

package cmd_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

// Both chips run against simulated buses, so no SPI hardware or DHCP server is needed.
const integrationConfig = `logging:
  level: debug
  format: simple

chips:
  w5500-0:
    mac: "02:00:5e:10:00:01"
    refresh_interval: 200ms
    bus:
      simulate: true
    static:
      ip: 192.168.101.10
      netmask: 255.255.255.0
      gateway: 192.168.101.1
  w5500-1:
    mac: "02:00:5e:10:00:02"
    refresh_interval: 200ms
    bus:
      simulate: true
    static:
      ip: 192.168.101.20
      netmask: 255.255.255.0
`

// buildDaemon builds the binary from the project root into a temporary directory
func buildDaemon(t *testing.T) string {
	bin := filepath.Join(t.TempDir(), "golang-w5500d")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = filepath.Join("..")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build daemon: %v\n%s", err, out)
	}
	return bin
}

func writeIntegrationConfig(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(integrationConfig), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestServeIntegration(t *testing.T) {
	bin := buildDaemon(t)
	configPath := writeIntegrationConfig(t)

	var stdout bytes.Buffer
	cmd := exec.Command(bin, "serve", "-f", configPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stdout
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start daemon: %v", err)
	}

	// Let both managers apply their configuration and run a few refresh cycles
	time.Sleep(time.Second)

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("Failed to signal daemon: %v", err)
	}
	if err := cmd.Wait(); err != nil {
		t.Fatalf("Daemon exited with error: %v\n%s", err, stdout.String())
	}

	output := stdout.String()
	t.Logf("Daemon output:\n%s", output)

	for _, chip := range []string{"w5500-0", "w5500-1"} {
		if !strings.Contains(output, "[manual]["+chip+"] Manual host configuration applied successfully") {
			t.Errorf("Chip %s was not configured", chip)
		}
	}
	if strings.Contains(output, "[ERROR]") {
		t.Errorf("Daemon logged errors")
	}
	if !strings.Contains(output, "All chip configuration adapters stopped") {
		t.Errorf("Daemon did not shut down cleanly")
	}
}

func TestInspectIntegration(t *testing.T) {
	bin := buildDaemon(t)
	configPath := writeIntegrationConfig(t)

	out, err := exec.Command(bin, "inspect", "-f", configPath, "w5500-1").CombinedOutput()
	if err != nil {
		t.Fatalf("inspect failed: %v\n%s", err, out)
	}

	output := string(out)
	if !strings.Contains(output, "w5500-1:") || !strings.Contains(output, "link:    up") {
		t.Errorf("Unexpected inspect output:\n%s", output)
	}
	if strings.Contains(output, "w5500-0:") {
		t.Errorf("inspect reported a chip that was not requested:\n%s", output)
	}

	out, err = exec.Command(bin, "inspect", "-f", configPath, "w5500-9").CombinedOutput()
	if err == nil {
		t.Errorf("inspect accepted an unknown chip:\n%s", out)
	}
}
