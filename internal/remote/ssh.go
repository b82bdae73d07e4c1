package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// DefaultCommandTimeout applies when Options.Timeout is zero.
const DefaultCommandTimeout = 5 * time.Minute

const dialTimeout = 10 * time.Second

// Target describes a remote host boundary: where to connect and where
// commands run by default.
type Target struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
	User    string `json:"user"`
	KeyPath string `json:"key_path"`
	WorkDir string `json:"work_dir"`
}

func (t Target) addr() string {
	port := t.Port
	if port == 0 {
		port = 22
	}
	return fmt.Sprintf("%s:%d", t.Address, port)
}

// Options controls a single command execution.
type Options struct {
	// Timeout for the command; DefaultCommandTimeout when zero.
	Timeout time.Duration
	// Elevate runs the command through sudo.
	Elevate bool
	// InWorkDir prefixes the command with a cd into the target's work
	// directory.
	InWorkDir bool
}

// Result is the outcome of a command that actually ran. A non-zero ExitCode
// is not an error at this layer; the caller decides whether it is fatal.
type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Err returns a CommandError when the exit code is non-zero, nil otherwise.
func (r *Result) Err(command string) error {
	if r.ExitCode == 0 {
		return nil
	}
	return &CommandError{Command: command, ExitCode: r.ExitCode, Stderr: strings.TrimSpace(r.Stderr)}
}

// Executor runs commands and transfers files on one remote host.
type Executor interface {
	Execute(ctx context.Context, command string, opts Options) (*Result, error)
	Upload(ctx context.Context, content []byte, path string) error
	Download(ctx context.Context, path string) ([]byte, error)
	Close() error
}

// Dialer opens an Executor for a target. Production code uses Dial; tests
// substitute a fake.
type Dialer func(Target) Executor

// Client is an SSH-backed Executor. The connection is opened lazily on first
// use and reused for subsequent commands; commands are serialized because a
// single SSH connection must not carry two concurrent exec sessions.
type Client struct {
	target Target

	mu     sync.Mutex
	conn   *ssh.Client
	closed bool
}

// Dial returns a lazily connecting client for the target.
func Dial(target Target) Executor {
	return &Client{target: target}
}

// connect establishes the SSH connection if not already up.
// Callers must hold c.mu.
func (c *Client) connect() error {
	if c.conn != nil {
		return nil
	}
	if c.closed {
		return &ConnectivityError{Addr: c.target.addr(), Err: fmt.Errorf("client closed")}
	}

	key, err := os.ReadFile(c.target.KeyPath)
	if err != nil {
		return &ConnectivityError{Addr: c.target.addr(), Err: fmt.Errorf("read ssh key: %w", err)}
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return &ConnectivityError{Addr: c.target.addr(), Err: fmt.Errorf("parse ssh key: %w", err)}
	}

	addr := c.target.addr()
	tcpConn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return &ConnectivityError{Addr: addr, Err: err}
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, &ssh.ClientConfig{
		User:            c.target.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	})
	if err != nil {
		tcpConn.Close()
		return &ConnectivityError{Addr: addr, Err: err}
	}

	c.conn = ssh.NewClient(sshConn, chans, reqs)
	return nil
}

// BuildCommand renders the final shell string for the target and options.
func BuildCommand(target Target, command string, opts Options) string {
	cmd := command
	if opts.Elevate {
		cmd = "sudo " + cmd
	}
	if opts.InWorkDir && target.WorkDir != "" {
		cmd = fmt.Sprintf("cd %s && %s", target.WorkDir, cmd)
	}
	return cmd
}

// Execute runs one command. It returns a ConnectivityError when the host is
// unreachable or the command times out (the connection is torn down on
// timeout); a non-zero exit code is reported in the Result, not as an error.
func (c *Client) Execute(ctx context.Context, command string, opts Options) (*Result, error) {
	return c.run(ctx, BuildCommand(c.target, command, opts), opts.Timeout, nil)
}

// Upload writes content to a remote path by streaming it through a shell
// redirection. Parent directories must exist.
func (c *Client) Upload(ctx context.Context, content []byte, path string) error {
	result, err := c.run(ctx, "cat > "+shellQuote(path), 0, content)
	if err != nil {
		return err
	}
	return result.Err("upload " + path)
}

// Download reads a remote file's content.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	result, err := c.run(ctx, "cat "+shellQuote(path), 0, nil)
	if err != nil {
		return nil, err
	}
	if err := result.Err("download " + path); err != nil {
		return nil, err
	}
	return []byte(result.Stdout), nil
}

// run executes one already-rendered shell string over a fresh session on the
// shared connection, feeding stdin when non-nil.
func (c *Client) run(ctx context.Context, cmd string, timeout time.Duration, stdin []byte) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(); err != nil {
		return nil, err
	}

	session, err := c.conn.NewSession()
	if err != nil {
		c.teardown()
		return nil, &ConnectivityError{Addr: c.target.addr(), Err: fmt.Errorf("open session: %w", err)}
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if stdin != nil {
		session.Stdin = bytes.NewReader(stdin)
	}

	if timeout == 0 {
		timeout = DefaultCommandTimeout
	}

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err = <-done:
	case <-timer.C:
		// Kill the whole connection so the remote command cannot hold the
		// channel open; the next command reconnects.
		c.teardown()
		return nil, &ConnectivityError{Addr: c.target.addr(), Err: fmt.Errorf("command timed out after %s", timeout)}
	case <-ctx.Done():
		c.teardown()
		return nil, &ConnectivityError{Addr: c.target.addr(), Err: ctx.Err()}
	}

	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitStatus()
			return result, nil
		}
		c.teardown()
		return nil, &ConnectivityError{Addr: c.target.addr(), Err: err}
	}
	return result, nil
}

// Close tears down the connection. Safe to call on every exit path and more
// than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.teardown()
	return nil
}

// teardown closes the underlying connection. Callers must hold c.mu.
func (c *Client) teardown() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
