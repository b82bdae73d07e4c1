package request

// RegisterHost is the request body for registering a new host.
type RegisterHost struct {
	Name           string `json:"name" validate:"required,min=1,max=255"`
	IPAddress      string `json:"ip_address" validate:"required,ip"`
	SSHPort        int    `json:"ssh_port" validate:"omitempty,min=1,max=65535"`
	SSHUser        string `json:"ssh_user" validate:"required"`
	SSHKeyPath     string `json:"ssh_key_path"`
	DBRootPassword string `json:"db_root_password"`
	AppRoot        string `json:"app_root"`
	MaxSites       int    `json:"max_sites" validate:"omitempty,min=1"`
}
