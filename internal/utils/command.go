package utils

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExists checks if a command is available in the system PATH
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// GetToolVersion gets the version of a tool
func GetToolVersion(tool string, versionFlag string) (string, error) {
	output, err := exec.Command(tool, versionFlag).CombinedOutput()
	if err != nil {
		return "", err
	}

	// mdadm prints its version on stderr
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		return strings.TrimSpace(lines[0]), nil
	}
	return "", nil
}

// RunCommand runs name with args and returns its standard output.
func RunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return output, nil
}
