package activity

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/zxrrcpandey/rahulops/internal/metrics"
	"github.com/zxrrcpandey/rahulops/internal/model"
	"github.com/zxrrcpandey/rahulops/internal/remote"
)

// Agent contains activities that run shell commands on managed hosts over
// SSH. One connection is dialed per activity invocation and closed when it
// returns.
type Agent struct {
	dial           remote.Dialer
	defaultKeyPath string
	sslEmail       string
	commandTimeout time.Duration
}

// NewAgent creates a new Agent activity struct.
func NewAgent(dial remote.Dialer, defaultKeyPath, sslEmail string, commandTimeout time.Duration) *Agent {
	if commandTimeout <= 0 {
		commandTimeout = remote.DefaultCommandTimeout
	}
	return &Agent{
		dial:           dial,
		defaultKeyPath: defaultKeyPath,
		sslEmail:       sslEmail,
		commandTimeout: commandTimeout,
	}
}

// hostTarget builds the SSH target for a host. A host record without its own
// key falls back to the worker's default key.
func hostTarget(host model.Host, defaultKeyPath string) remote.Target {
	keyPath := host.SSHKeyPath
	if keyPath == "" {
		keyPath = defaultKeyPath
	}
	return remote.Target{
		Address: host.IPAddress,
		Port:    host.SSHPort,
		User:    host.SSHUser,
		KeyPath: keyPath,
		WorkDir: host.AppRoot,
	}
}

func (a *Agent) target(host model.Host) remote.Target {
	return hostTarget(host, a.defaultKeyPath)
}

// run executes one command on the host. Connectivity failures and non-zero
// exits both surface as non-retryable application errors so the step policy
// in the owning workflow decides what happens next.
func (a *Agent) run(ctx context.Context, host model.Host, command string, opts remote.Options) (*remote.Result, error) {
	if opts.Timeout == 0 {
		opts.Timeout = a.commandTimeout
	}
	exec := a.dial(a.target(host))
	defer exec.Close()

	result, err := exec.Execute(ctx, command, opts)
	if err != nil {
		metrics.RemoteCommands.WithLabelValues("unreachable").Inc()
		if remote.IsConnectivity(err) {
			return nil, temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("host %s unreachable", host.Name), "HOST_UNREACHABLE", err)
		}
		return nil, fmt.Errorf("execute on %s: %w", host.Name, err)
	}
	if cmdErr := result.Err(command); cmdErr != nil {
		metrics.RemoteCommands.WithLabelValues("failed").Inc()
		return result, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("command failed on %s", host.Name), "COMMAND_FAILED", cmdErr)
	}
	metrics.RemoteCommands.WithLabelValues("ok").Inc()
	return result, nil
}

// SiteCommandParams identifies a site on its host for single-site commands.
type SiteCommandParams struct {
	Host     model.Host `json:"host"`
	SiteName string     `json:"site_name"`
}

// CreateSiteParams holds parameters for the CreateSite activity. The admin
// password is issued by the owning workflow so it can be reported back to the
// client.
type CreateSiteParams struct {
	Host          model.Host `json:"host"`
	SiteName      string     `json:"site_name"`
	AdminPassword string     `json:"admin_password"`
}

// CreateSite runs "bench new-site" with the issued admin password.
func (a *Agent) CreateSite(ctx context.Context, params CreateSiteParams) error {
	cmd := fmt.Sprintf("bench new-site %s --admin-password %s --mariadb-root-password %s",
		params.SiteName, params.AdminPassword, params.Host.DBRootPassword)
	_, err := a.run(ctx, params.Host, cmd, remote.Options{InWorkDir: true})
	return err
}

// InstallAppParams holds parameters for the InstallApp activity.
type InstallAppParams struct {
	Host     model.Host `json:"host"`
	SiteName string     `json:"site_name"`
	App      string     `json:"app"`
}

// InstallApp installs one application onto a site.
func (a *Agent) InstallApp(ctx context.Context, params InstallAppParams) error {
	cmd := fmt.Sprintf("bench --site %s install-app %s", params.SiteName, params.App)
	_, err := a.run(ctx, params.Host, cmd, remote.Options{InWorkDir: true})
	return err
}

// EnableScheduler turns the site's scheduler on and lifts maintenance mode.
func (a *Agent) EnableScheduler(ctx context.Context, params SiteCommandParams) error {
	cmd := fmt.Sprintf("bench --site %s enable-scheduler && bench --site %s set-maintenance-mode off",
		params.SiteName, params.SiteName)
	_, err := a.run(ctx, params.Host, cmd, remote.Options{InWorkDir: true})
	return err
}

// ConfigureWebserver regenerates the nginx config and reloads it.
func (a *Agent) ConfigureWebserver(ctx context.Context, host model.Host) error {
	_, err := a.run(ctx, host, "bench setup nginx --yes && sudo systemctl reload nginx",
		remote.Options{InWorkDir: true})
	return err
}

// IssueCertificate requests a certificate for the site via certbot.
func (a *Agent) IssueCertificate(ctx context.Context, params SiteCommandParams) error {
	cmd := fmt.Sprintf("certbot --nginx -d %s --non-interactive --agree-tos --email %s",
		params.SiteName, a.sslEmail)
	_, err := a.run(ctx, params.Host, cmd, remote.Options{Elevate: true})
	return err
}

// RestartServices restarts all supervised processes on the host.
func (a *Agent) RestartServices(ctx context.Context, host model.Host) error {
	_, err := a.run(ctx, host, "supervisorctl restart all", remote.Options{Elevate: true})
	return err
}

// SuspendSiteOnHost puts the site into maintenance mode and stops its
// scheduler. Safe to repeat.
func (a *Agent) SuspendSiteOnHost(ctx context.Context, params SiteCommandParams) error {
	cmd := fmt.Sprintf("bench --site %s set-maintenance-mode on && bench --site %s disable-scheduler",
		params.SiteName, params.SiteName)
	_, err := a.run(ctx, params.Host, cmd, remote.Options{InWorkDir: true})
	return err
}

// ResumeSiteOnHost lifts maintenance mode and restarts the scheduler. Safe to
// repeat.
func (a *Agent) ResumeSiteOnHost(ctx context.Context, params SiteCommandParams) error {
	cmd := fmt.Sprintf("bench --site %s set-maintenance-mode off && bench --site %s enable-scheduler",
		params.SiteName, params.SiteName)
	_, err := a.run(ctx, params.Host, cmd, remote.Options{InWorkDir: true})
	return err
}

// ExecuteBackupParams holds parameters for the ExecuteBackup activity.
type ExecuteBackupParams struct {
	Host       model.Host `json:"host"`
	SiteName   string     `json:"site_name"`
	BackupType string     `json:"backup_type"`
}

// BackupResult is what ExecuteBackup reports back for the backup record.
type BackupResult struct {
	StoragePath string `json:"storage_path"`
	SizeBytes   int64  `json:"size_bytes"`
}

// ExecuteBackup runs "bench backup" for the site and reports the newest
// archive in the site's backup directory.
func (a *Agent) ExecuteBackup(ctx context.Context, params ExecuteBackupParams) (*BackupResult, error) {
	flags := ""
	if params.BackupType == model.BackupTypeFull {
		flags = " --with-files"
	}
	cmd := fmt.Sprintf("bench --site %s backup%s", params.SiteName, flags)
	if _, err := a.run(ctx, params.Host, cmd, remote.Options{InWorkDir: true}); err != nil {
		return nil, err
	}

	dir := fmt.Sprintf("%s/sites/%s/private/backups", params.Host.AppRoot, params.SiteName)
	probe := fmt.Sprintf(`f=$(ls -t %s | head -1) && echo "FILE:$f" && echo "SIZE:$(stat -c %%s %s/$f)"`, dir, dir)
	result, err := a.run(ctx, params.Host, probe, remote.Options{})
	if err != nil {
		return nil, err
	}

	br := &BackupResult{}
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "FILE:"):
			br.StoragePath = dir + "/" + strings.TrimPrefix(line, "FILE:")
		case strings.HasPrefix(line, "SIZE:"):
			size, convErr := strconv.ParseInt(strings.TrimPrefix(line, "SIZE:"), 10, 64)
			if convErr != nil {
				return nil, temporal.NewNonRetryableApplicationError(
					"parse backup size", "PARSE_ERROR", convErr)
			}
			br.SizeBytes = size
		}
	}
	if br.StoragePath == "" {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("no backup archive found for %s", params.SiteName), "PARSE_ERROR", nil)
	}
	return br, nil
}

// ProbeResult is one health sample. Reachable false means the host did not
// answer on SSH at all.
type ProbeResult struct {
	Reachable bool              `json:"reachable"`
	Metrics   model.HostMetrics `json:"metrics"`
}

const metricsScript = `echo "CPU:$(top -bn1 | grep 'Cpu(s)' | awk '{print $2}')"
echo "RAM:$(free -m | awk 'NR==2{printf "%.1f", $3*100/$2 }')"
echo "DISK:$(df -h / | awk 'NR==2 {print $5}' | tr -d '%')"
echo "UPTIME:$(uptime -p)"`

// CollectHostMetrics samples CPU, RAM, disk and uptime from a host. An
// unreachable host is a result, not an error, so the sweep can mark it
// offline.
func (a *Agent) CollectHostMetrics(ctx context.Context, host model.Host) (*ProbeResult, error) {
	exec := a.dial(a.target(host))
	defer exec.Close()

	result, err := exec.Execute(ctx, metricsScript, remote.Options{Timeout: 30 * time.Second})
	if err != nil {
		if remote.IsConnectivity(err) {
			metrics.RemoteCommands.WithLabelValues("unreachable").Inc()
			return &ProbeResult{Reachable: false}, nil
		}
		return nil, fmt.Errorf("probe %s: %w", host.Name, err)
	}
	if result.ExitCode != 0 {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("metrics probe failed on %s", host.Name), "COMMAND_FAILED",
			result.Err(metricsScript))
	}
	metrics.RemoteCommands.WithLabelValues("ok").Inc()

	pr := &ProbeResult{Reachable: true}
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "CPU:"):
			pr.Metrics.CPU = parseMetric(strings.TrimPrefix(line, "CPU:"))
		case strings.HasPrefix(line, "RAM:"):
			pr.Metrics.RAM = parseMetric(strings.TrimPrefix(line, "RAM:"))
		case strings.HasPrefix(line, "DISK:"):
			pr.Metrics.Disk = parseMetric(strings.TrimPrefix(line, "DISK:"))
		case strings.HasPrefix(line, "UPTIME:"):
			pr.Metrics.Uptime = strings.TrimPrefix(line, "UPTIME:")
		}
	}
	return pr, nil
}

// parseMetric tolerates trailing units like "12.3%us".
func parseMetric(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

// SetupHostParams holds parameters for the SetupHost activity.
type SetupHostParams struct {
	Host model.Host `json:"host"`
	Apps []string   `json:"apps"`
}

// SetupHost runs the provisioning script that installs the full application
// stack on a fresh machine.
func (a *Agent) SetupHost(ctx context.Context, params SetupHostParams) error {
	cmd := fmt.Sprintf(
		"export FRAPPE_USER=%s MARIADB_ROOT_PASSWORD=%s APPS_TO_INSTALL=%q && "+
			"curl -fsSLO https://raw.githubusercontent.com/rahulops/fleet-scripts/main/host-setup.sh && "+
			"chmod +x host-setup.sh && sudo ./host-setup.sh",
		params.Host.SSHUser, params.Host.DBRootPassword, strings.Join(params.Apps, " "))
	_, err := a.run(ctx, params.Host, cmd, remote.Options{Timeout: 45 * time.Minute})
	return err
}
