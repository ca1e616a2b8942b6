//go:build !windows

package platform

import (
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessController_ConfigureSetsProcessGroup(t *testing.T) {
	cmd := exec.Command("sleep", "1")
	NewProcessController().Configure(cmd)

	require.NotNil(t, cmd.SysProcAttr)
	assert.True(t, cmd.SysProcAttr.Setpgid)
}

func TestProcessController_KillTree(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	controller := NewProcessController()
	cmd := exec.Command("sleep", "30")
	controller.Configure(cmd)
	require.NoError(t, cmd.Start())

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	require.NoError(t, controller.KillTree(cmd))

	select {
	case err := <-done:
		assert.Error(t, err, "killed process should report a non-zero exit")
	case <-time.After(5 * time.Second):
		t.Fatal("process was not killed")
	}
}

func TestProcessController_KillTreeWithoutProcess(t *testing.T) {
	err := NewProcessController().KillTree(exec.Command("sleep", "1"))
	assert.ErrorIs(t, err, os.ErrProcessDone)
}
