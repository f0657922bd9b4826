// Package hooks runs the host framework's deploy command between lifecycle
// phases.
package hooks

import (
	"context"
	"os"
	"os/exec"
)

// Execute runs a shell command with stdio attached and the given extra
// environment overlaid. The command is executed via "sh -c" in the current
// working directory; cancellation comes from ctx.
func Execute(ctx context.Context, command string, env map[string]string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // deploy command comes from the operator's own invocation
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Inherit process environment and overlay deploy-specific vars.
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	return cmd.Run()
}
