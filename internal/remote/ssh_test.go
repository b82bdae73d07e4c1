package remote

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	target := Target{Address: "10.0.0.5", WorkDir: "/home/frappe/frappe-bench"}

	tests := []struct {
		name     string
		command  string
		opts     Options
		expected string
	}{
		{
			name:     "plain",
			command:  "uptime -p",
			opts:     Options{},
			expected: "uptime -p",
		},
		{
			name:     "elevated",
			command:  "systemctl reload nginx",
			opts:     Options{Elevate: true},
			expected: "sudo systemctl reload nginx",
		},
		{
			name:     "in work dir",
			command:  "bench --site s1.example.com enable-scheduler",
			opts:     Options{InWorkDir: true},
			expected: "cd /home/frappe/frappe-bench && bench --site s1.example.com enable-scheduler",
		},
		{
			name:     "elevated in work dir",
			command:  "supervisorctl restart all",
			opts:     Options{Elevate: true, InWorkDir: true},
			expected: "cd /home/frappe/frappe-bench && sudo supervisorctl restart all",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildCommand(target, tt.command, tt.opts))
		})
	}
}

func TestBuildCommand_NoWorkDirConfigured(t *testing.T) {
	target := Target{Address: "10.0.0.5"}
	assert.Equal(t, "ls", BuildCommand(target, "ls", Options{InWorkDir: true}))
}

func TestTargetAddr_DefaultsPort22(t *testing.T) {
	assert.Equal(t, "10.0.0.5:22", Target{Address: "10.0.0.5"}.addr())
	assert.Equal(t, "10.0.0.5:2222", Target{Address: "10.0.0.5", Port: 2222}.addr())
}

func TestResultErr(t *testing.T) {
	ok := &Result{ExitCode: 0, Stdout: "done"}
	require.NoError(t, ok.Err("bench new-site"))

	failed := &Result{ExitCode: 1, Stderr: "site already exists\n"}
	err := failed.Err("bench new-site")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Equal(t, "site already exists", cmdErr.Stderr)
	assert.Equal(t, "bench new-site", cmdErr.Command)
}

func TestIsConnectivity(t *testing.T) {
	base := &ConnectivityError{Addr: "10.0.0.5:22", Err: fmt.Errorf("connection refused")}
	assert.True(t, IsConnectivity(base))
	assert.True(t, IsConnectivity(fmt.Errorf("probe host: %w", base)))
	assert.False(t, IsConnectivity(errors.New("plain error")))
	assert.False(t, IsConnectivity(&CommandError{ExitCode: 2}))
}

func TestClient_ExecuteAfterClose(t *testing.T) {
	c := &Client{target: Target{Address: "10.0.0.5"}}
	require.NoError(t, c.Close())

	_, err := c.Execute(t.Context(), "uptime", Options{})
	require.Error(t, err)
	assert.True(t, IsConnectivity(err))
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'/var/backups/site.tar.gz'", shellQuote("/var/backups/site.tar.gz"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
}
