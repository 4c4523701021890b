package ports

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
)

// Kill force-kills every process listening on the port. This is the one
// destructive operation in the package; the panel guards it behind an
// explicit keystroke.
func Kill(port int) error {
	if port <= 0 {
		return fmt.Errorf("invalid port %d", port)
	}

	out, err := exec.Command("lsof", "-ti", fmt.Sprintf(":%d", port)).Output()
	if err != nil {
		// lsof exits non-zero when nothing is listening.
		return nil
	}

	for _, field := range strings.Fields(strings.TrimSpace(string(out))) {
		pid, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		// Kill the process group first so shell-spawned children go too.
		syscall.Kill(-pid, syscall.SIGKILL)
		syscall.Kill(pid, syscall.SIGKILL)
	}
	return nil
}
