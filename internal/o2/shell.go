package o2

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// runShell executes a command line via a login shell, combining stdout and
// stderr the way the scripts expect to be read: whichever stream is empty
// is dropped, otherwise stderr follows stdout.
func runShell(cmdline string) (string, error) {
	cmd := exec.Command("bash", "-lc", cmdline)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	combined := combine(stdout.String(), stderr.String())

	if err != nil {
		code := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		return "", fmt.Errorf("command failed (exit %d):\n%s", code, combined)
	}
	return combined, nil
}

func combine(stdout, stderr string) string {
	switch {
	case strings.TrimSpace(stderr) == "":
		return stdout
	case strings.TrimSpace(stdout) == "":
		return stderr
	default:
		return stdout + "\n" + stderr
	}
}

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("no browser opener for %s", runtime.GOOS)
	}
	return cmd.Start()
}
