package model

import "time"

// Host is a managed machine capable of running multiple sites. Hosts are never
// deleted, only marked offline.
type Host struct {
	ID                string     `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	IPAddress         string     `json:"ip_address" db:"ip_address"`
	SSHPort           int        `json:"ssh_port" db:"ssh_port"`
	SSHUser           string     `json:"ssh_user" db:"ssh_user"`
	SSHKeyPath        string     `json:"-" db:"ssh_key_path"`
	DBRootPassword    string     `json:"-" db:"db_root_password"`
	AppRoot           string     `json:"app_root" db:"app_root"`
	MaxSites          int        `json:"max_sites" db:"max_sites"`
	Status            string     `json:"status" db:"status"`
	HealthStatus      string     `json:"health_status" db:"health_status"`
	CPUUsage          *float64   `json:"cpu_usage,omitempty" db:"cpu_usage"`
	RAMUsage          *float64   `json:"ram_usage,omitempty" db:"ram_usage"`
	DiskUsage         *float64   `json:"disk_usage,omitempty" db:"disk_usage"`
	Uptime            *string    `json:"uptime,omitempty" db:"uptime"`
	LastHealthCheckAt *time.Time `json:"last_health_check_at,omitempty" db:"last_health_check_at"`
	SetupCompletedAt  *time.Time `json:"setup_completed_at,omitempty" db:"setup_completed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// HostMetrics is one metrics sample collected from a host by the health sweep.
type HostMetrics struct {
	CPU    float64 `json:"cpu"`
	RAM    float64 `json:"ram"`
	Disk   float64 `json:"disk"`
	Uptime string  `json:"uptime"`
}
