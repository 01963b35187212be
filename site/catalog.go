package site

import (
	"time"

	opts "github.com/goliatone/go-siteopts"
)

func generalOptions() []opts.Descriptor {
	return []opts.Descriptor{
		{Name: "HADES_SITE_NAME", Description: "Name of the site", Type: opts.TypeString},
		{Name: "HADES_SITE_NODE_ID", Description: "Unique name of the site node instance", Type: opts.TypeString},
		{
			Name:         "HADES_CONFIG_DIR",
			Description:  "Directory where generated config files will be saved",
			Type:         opts.TypeString,
			Default:      "/etc/hades",
			RuntimeCheck: opts.DirectoryExists(),
		},
		{
			Name:        "HADES_REAUTHENTICATION_INTERVAL",
			Description: "RADIUS periodic reauthentication interval",
			Type:        opts.TypeDuration,
			Default:     300 * time.Second,
			StaticCheck: opts.GreaterThan(time.Duration(0)),
		},
		{
			Name:        "HADES_RETENTION_INTERVAL",
			Description: "RADIUS postauth and accounting data retention interval",
			Type:        opts.TypeDuration,
			Default:     24 * time.Hour,
			StaticCheck: opts.GreaterThan(time.Duration(0)),
		},
		{Name: "HADES_CONTACT_ADDRESSES", Description: "Contact addresses displayed on the captive portal page", Type: opts.TypeMapping},
		{
			Name:        "HADES_USER_NETWORKS",
			Description: "Public networks of authenticated users, keyed by a unique identifier",
			Type:        opts.TypeMapping,
			StaticCheck: opts.All(opts.NotEmpty(), opts.MappingValues(opts.NetworkIP())),
		},
		{Name: "HADES_CREATE_DUMMY_INTERFACES", Description: "Create dummy interfaces if interfaces do not exist", Type: opts.TypeBool, Default: false},
	}
}

func agentOptions() []opts.Descriptor {
	return []opts.Descriptor{
		{Name: "HADES_AGENT_USER", Description: "User of the site node agent", Type: opts.TypeString, Default: "hades-agent", RuntimeCheck: opts.UserExists()},
		{Name: "HADES_AGENT_GROUP", Description: "Group of the site node agent", Type: opts.TypeString, Default: "hades-agent", RuntimeCheck: opts.GroupExists()},
		{Name: "HADES_AGENT_HOME", Description: "Working directory of the site node agent", Type: opts.TypeString, Default: "/var/lib/hades/agent", RuntimeCheck: opts.DirectoryExists()},
	}
}

func postgresqlOptions() []opts.Descriptor {
	table := func(name, table string) opts.Descriptor {
		return opts.Descriptor{
			Name:        "HADES_POSTGRESQL_FOREIGN_TABLE_" + name + "_OPTIONS",
			Description: "Foreign data wrapper options for the " + table + " table",
			Type:        opts.TypeMapping,
			Default:     opts.MapOf("table_name", table),
		}
	}
	flag := func(name, description string) opts.Descriptor {
		return opts.Descriptor{
			Name:        "HADES_POSTGRESQL_FOREIGN_TABLE_" + name,
			Description: description,
			Type:        opts.TypeBool,
			Default:     false,
		}
	}
	return []opts.Descriptor{
		{Name: "HADES_POSTGRESQL_USER", Description: "User the PostgreSQL database is running as", Type: opts.TypeString, Default: "postgres"},
		{Name: "HADES_POSTGRESQL_DATABASE", Description: "Name of the PostgreSQL database on the site node", Type: opts.TypeString, Default: "hades"},
		{Name: "HADES_POSTGRESQL_SOCKET", Description: "Path to the PostgreSQL socket directory", Type: opts.TypeString, Default: "/var/run/postgresql", RuntimeCheck: opts.DirectoryExists()},
		{Name: "HADES_POSTGRESQL_FOREIGN_SERVER_FDW", Description: "Name of the foreign data wrapper extension", Type: opts.TypeString, Default: "mysql_fdw"},
		{Name: "HADES_POSTGRESQL_FOREIGN_SERVER_OPTIONS", Description: "Foreign data wrapper specific server options", Type: opts.TypeMapping},
		{
			Name:        "HADES_POSTGRESQL_FOREIGN_TABLE_GLOBAL_OPTIONS",
			Description: "Foreign data wrapper options set on each foreign table unless overridden per table",
			Type:        opts.TypeMapping,
			Default:     opts.MapOf("dbname", "hades"),
		},
		flag("DHCPHOST_IPADDRESS_STRING", "Whether the ipaddress column of dhcphost has a string type"),
		flag("DHCPHOST_MAC_STRING", "Whether the mac column of dhcphost has a string type"),
		table("DHCPHOST", "dhcphost"),
		table("NAS", "nas"),
		flag("RADCHECK_NASIPADDRESS_STRING", "Whether the nasipaddress column of radcheck has a string type"),
		table("RADCHECK", "radcheck"),
		table("RADGROUPCHECK", "radgroupcheck"),
		table("RADGROUPREPLY", "radgroupreply"),
		flag("RADREPLY_NASIPADDRESS_STRING", "Whether the nasipaddress column of radreply has a string type"),
		table("RADREPLY", "radreply"),
		flag("RADUSERGROUP_NASIPADDRESS_STRING", "Whether the nasipaddress column of radusergroup has a string type"),
		table("RADUSERGROUP", "radusergroup"),
		{
			Name:        "HADES_POSTGRESQL_USER_MAPPINGS",
			Description: "User mappings from local database users to users on the foreign database server",
			Type:        opts.TypeMapping,
			StaticCheck: opts.All(
				opts.UserMappingFor("HADES_POSTGRESQL_USER"),
				opts.UserMappingFor("HADES_AGENT_USER"),
			),
		},
	}
}

func portalOptions() []opts.Descriptor {
	return []opts.Descriptor{
		{Name: "HADES_PORTAL_DOMAIN", Description: "Fully qualified domain name of the captive portal", Type: opts.TypeString, Default: "captive-portal.agdsn.de"},
		{Name: "HADES_PORTAL_USER", Description: "User of the web server and captive portal application", Type: opts.TypeString, Default: "hades-portal", RuntimeCheck: opts.UserExists()},
		{Name: "HADES_PORTAL_GROUP", Description: "Group of the web server and captive portal application", Type: opts.TypeString, Default: "hades-portal", RuntimeCheck: opts.GroupExists()},
		{Name: "HADES_PORTAL_HOME", Description: "Working directory of the captive portal application", Type: opts.TypeString, Default: "/var/lib/hades/portal", RuntimeCheck: opts.DirectoryExists()},
		{Name: "HADES_PORTAL_NGINX_WORKERS", Description: "Number of nginx worker processes", Type: opts.TypeInteger, Default: 4, StaticCheck: opts.GreaterThan(0)},
		{Name: "HADES_PORTAL_SSL_CERTIFICATE", Description: "Path to the SSL certificate of the captive portal", Type: opts.TypeString, Default: "/etc/ssl/certs/ssl-cert-snakeoil.pem", RuntimeCheck: opts.FileExists()},
		{Name: "HADES_PORTAL_SSL_CERTIFICATE_KEY", Description: "Path to the SSL certificate key of the captive portal", Type: opts.TypeString, Default: "/etc/ssl/private/ssl-cert-snakeoil.key", RuntimeCheck: opts.FileExists()},
		{Name: "HADES_PORTAL_UWSGI_SOCKET", Description: "Path to the uWSGI socket of the captive portal", Type: opts.TypeString, Default: "/run/hades/portal/uwsgi.sock", RuntimeCheck: opts.FileCreatable()},
		{Name: "HADES_PORTAL_UWSGI_WORKERS", Description: "Number of uWSGI worker processes", Type: opts.TypeInteger, Default: 4, StaticCheck: opts.GreaterThan(0)},
	}
}

func authOptions() []opts.Descriptor {
	return []opts.Descriptor{
		{
			Name:         "HADES_AUTH_DNSMASQ_USER",
			Description:  "User of the dnsmasq instance for authenticated users and the signal proxy",
			Type:         opts.TypeString,
			Default:      opts.Alias("HADES_AGENT_USER"),
			RuntimeCheck: opts.UserExists(),
		},
		{
			Name:         "HADES_AUTH_DNSMASQ_GROUP",
			Description:  "Group of the dnsmasq instance for authenticated users and the signal proxy",
			Type:         opts.TypeString,
			Default:      opts.Alias("HADES_AGENT_GROUP"),
			RuntimeCheck: opts.GroupExists(),
		},
		{Name: "HADES_AUTH_DNSMASQ_HOSTS_FILE", Description: "DHCP hosts file of the dnsmasq instance for authenticated users", Type: opts.TypeString, Default: "/var/lib/hades/agent/auth-dnsmasq.hosts", RuntimeCheck: opts.FileCreatable()},
		{Name: "HADES_AUTH_DNSMASQ_LEASE_FILE", Description: "DHCP lease file of the dnsmasq instance for authenticated users", Type: opts.TypeString, Default: "/var/lib/hades/agent/auth-dnsmasq.leases", RuntimeCheck: opts.FileCreatable()},
		{Name: "HADES_AUTH_DNSMASQ_SIGNAL_SOCKET", Description: "Path to the Unix socket of the signal proxy", Type: opts.TypeString, Default: "/run/hades/agent/auth-dnsmasq.sock", RuntimeCheck: opts.FileCreatable()},
		{Name: "HADES_AUTH_DHCP_DOMAIN", Description: "DNS domain of authenticated users", Type: opts.TypeString, Default: "users.agdsn.de"},
		{Name: "HADES_AUTH_DHCP_LEASE_TIME", Description: "DHCP lease time for authenticated users", Type: opts.TypeDuration, Default: 24 * time.Hour, StaticCheck: opts.GreaterThan(time.Duration(0))},
		{
			Name:         "HADES_AUTH_LISTEN",
			Description:  "IP and network to listen on for requests from authenticated users",
			Type:         opts.TypeIPNetwork,
			Default:      "10.66.67.1/24",
			StaticCheck:  opts.NetworkIP(),
			RuntimeCheck: opts.AddressExists(),
		},
		{
			Name:         "HADES_AUTH_INTERFACE",
			Description:  "Interface where requests from authenticated users arrive; must not be attached to the user networks",
			Type:         opts.TypeString,
			RuntimeCheck: opts.InterfaceExists(),
		},
		{Name: "HADES_AUTH_FWMARK", Description: "Firewall mark for connections from authenticated users", Type: opts.TypeInteger, Default: 1, StaticCheck: opts.Between(0, 255)},
		{Name: "HADES_AUTH_ALLOWED_TCP_PORTS", Description: "Allowed TCP destination ports for authenticated users", Type: opts.TypeSequence, Default: []any{53, 80, 443}},
		{Name: "HADES_AUTH_ALLOWED_UDP_PORTS", Description: "Allowed UDP destination ports for authenticated users", Type: opts.TypeSequence, Default: []any{53, 67}},
		{Name: "HADES_AUTH_ROUTING_TABLE", Description: "Routing table for connections from authenticated users", Type: opts.TypeInteger, Default: 1, StaticCheck: opts.Between(0, 255)},
	}
}

func unauthOptions() []opts.Descriptor {
	return []opts.Descriptor{
		{Name: "HADES_UNAUTH_DHCP_LEASE_TIME", Description: "DHCP lease time in the unauth VLAN", Type: opts.TypeDuration, Default: 2 * time.Minute, StaticCheck: opts.GreaterThan(time.Duration(0))},
		{Name: "HADES_UNAUTH_INTERFACE", Description: "Interface attached to the unauth VLAN", Type: opts.TypeString, RuntimeCheck: opts.InterfaceExists()},
		{
			Name:         "HADES_UNAUTH_LISTEN",
			Description:  "IP and network to listen on for unauthenticated users",
			Type:         opts.TypeIPNetwork,
			Default:      "10.66.0.1/19",
			StaticCheck:  opts.NetworkIP(),
			RuntimeCheck: opts.AddressExists(),
		},
		{Name: "HADES_UNAUTH_FWMARK", Description: "Firewall mark for connections from unauthenticated users", Type: opts.TypeInteger, Default: 2, StaticCheck: opts.Between(0, 255)},
		{Name: "HADES_UNAUTH_ALLOWED_TCP_PORTS", Description: "Allowed TCP destination ports for unauthenticated users", Type: opts.TypeSequence, Default: []any{53, 80, 443}},
		{Name: "HADES_UNAUTH_ALLOWED_UDP_PORTS", Description: "Allowed UDP destination ports for unauthenticated users", Type: opts.TypeSequence, Default: []any{53, 67}},
		{Name: "HADES_UNAUTH_CAPTURED_TCP_PORTS", Description: "TCP ports redirected to the unauth listen address", Type: opts.TypeSequence, Default: []any{53, 80, 443}},
		{Name: "HADES_UNAUTH_CAPTURED_UDP_PORTS", Description: "UDP ports redirected to the unauth listen address", Type: opts.TypeSequence, Default: []any{53}},
		{Name: "HADES_UNAUTH_ROUTING_TABLE", Description: "Routing table for connections from unauthenticated users", Type: opts.TypeInteger, Default: 2, StaticCheck: opts.Between(0, 255)},
		{
			Name:        "HADES_UNAUTH_DHCP_RANGE",
			Description: "DHCP range for the unauth VLAN, contained in HADES_UNAUTH_LISTEN",
			Type:        opts.TypeIPRange,
			Default:     opts.MustIPRange("10.66.0.10", "10.66.31.254"),
			StaticCheck: opts.IPRangeInNetwork("HADES_UNAUTH_LISTEN"),
		},
	}
}

func radiusOptions() []opts.Descriptor {
	return []opts.Descriptor{
		{Name: "HADES_RADIUS_USER", Description: "User of the freeRADIUS server", Type: opts.TypeString, Default: "freerad", RuntimeCheck: opts.UserExists()},
		{Name: "HADES_RADIUS_GROUP", Description: "Group of the freeRADIUS server", Type: opts.TypeString, Default: "freerad", RuntimeCheck: opts.GroupExists()},
		{
			Name:         "HADES_RADIUS_LISTEN",
			Description:  "IP and network the RADIUS server is listening on",
			Type:         opts.TypeIPNetwork,
			StaticCheck:  opts.NetworkIP(),
			RuntimeCheck: opts.AddressExists(),
		},
		{Name: "HADES_RADIUS_INTERFACE", Description: "Interface the RADIUS server is listening on", Type: opts.TypeString, RuntimeCheck: opts.InterfaceExists()},
		{Name: "HADES_RADIUS_AUTHENTICATION_PORT", Description: "RADIUS authentication port", Type: opts.TypeInteger, Default: 1812},
		{Name: "HADES_RADIUS_ACCOUNTING_PORT", Description: "RADIUS accounting port", Type: opts.TypeInteger, Default: 1813},
		{Name: "HADES_RADIUS_LOCALHOST_SECRET", Description: "Shared secret for the localhost RADIUS client", Type: opts.TypeString},
		{Name: "HADES_RADIUS_DATABASE_FAIL_ACCEPT", Description: "Send Access-Accept packets if the sql module fails", Type: opts.TypeBool, Default: true},
		{
			Name:        "HADES_RADIUS_DATABASE_FAIL_REPLY_ATTRIBUTES",
			Description: "Reply attributes set in Access-Accept packets if the sql module fails, in freeRADIUS syntax",
			Type:        opts.TypeMapping,
			Default:     opts.MapOf("Reply-Message", "'database_down'"),
		},
		{Name: "HADES_GRATUITOUS_ARP_INTERVAL", Description: "Period between gratuitous ARP broadcasts", Type: opts.TypeDuration, Default: time.Second},
	}
}

func vrrpOptions() []opts.Descriptor {
	return []opts.Descriptor{
		{Name: "HADES_PRIORITY", Description: "Priority of the site node instance; the highest available becomes master", Type: opts.TypeInteger, Default: 100, StaticCheck: opts.Between(1, 254)},
		{Name: "HADES_INITIAL_MASTER", Description: "Whether the site node instance starts in master state", Type: opts.TypeBool, Default: false},
		{Name: "HADES_VRRP_INTERFACE", Description: "Interface for VRRP communication", Type: opts.TypeString, RuntimeCheck: opts.InterfaceExists()},
		{
			Name:         "HADES_VRRP_LISTEN",
			Description:  "IP and network for VRRP communication",
			Type:         opts.TypeIPNetwork,
			StaticCheck:  opts.NetworkIP(),
			RuntimeCheck: opts.AddressExists(),
		},
		{Name: "HADES_VRRP_PASSWORD", Description: "Shared secret to authenticate VRRP messages between site node instances", Type: opts.TypeString},
		{Name: "HADES_VRRP_VIRTUAL_ROUTER_ID", Description: "Virtual router ID", Type: opts.TypeInteger, Default: 66, StaticCheck: opts.Between(0, 255)},
		{Name: "HADES_VRRP_ADVERTISEMENT_INTERVAL", Description: "Interval between VRRP advertisements", Type: opts.TypeDuration, Default: 5 * time.Second, StaticCheck: opts.GreaterThan(time.Duration(0))},
		{
			Name:        "HADES_VRRP_PREEMPTION_DELAY",
			Description: "Delay before a master yields to a node with higher priority",
			Type:        opts.TypeDuration,
			Default:     30 * time.Second,
			StaticCheck: opts.Between(time.Duration(0), 1000*time.Second),
		},
	}
}

func portalAppOptions(secret string) []opts.Descriptor {
	return []opts.Descriptor{
		{Name: "SECRET_KEY", Description: "Secret key of the portal application", Type: opts.TypeString, Default: secret},
		{Name: "DEBUG", Description: "Debug mode of the portal application", Type: opts.TypeBool, Default: false},
		{Name: "BABEL_DEFAULT_LOCALE", Description: "Default locale of the portal application", Type: opts.TypeString, Default: "de_DE"},
		{Name: "BABEL_DEFAULT_TIMEZONE", Description: "Default timezone of the portal application", Type: opts.TypeString, Default: "Europe/Berlin"},
		{
			Name:        "SQLALCHEMY_DATABASE_URI",
			Description: "Database URI of the portal application",
			Type:        opts.TypeString,
			Default:     opts.Format("postgresql:///{}", "HADES_POSTGRESQL_DATABASE"),
		},
	}
}

func celeryOptions() []opts.Descriptor {
	return []opts.Descriptor{
		{Name: "BROKER_URL", Description: "URL of the task broker", Type: opts.TypeString},
		{
			Name:        "BROKER_CONNECTION_MAX_RETRIES",
			Description: "Retries before giving up reconnecting to the broker; zero retries forever",
			Type:        opts.TypeInteger,
			Default:     0,
		},
		{Name: "CELERY_ENABLE_UTC", Type: opts.TypeBool, Default: true},
		{Name: "CELERY_TIMEZONE", Type: opts.TypeString, Default: "UTC"},
		{Name: "CELERY_DEFAULT_QUEUE", Type: opts.TypeString, Default: opts.Format("hades-site-{}", "HADES_SITE_NAME")},
		{Name: "CELERY_ACCEPT_CONTENT", Type: opts.TypeSequence, Default: []any{"json", "msgpack", "pickle", "yaml"}},
		{Name: "CELERY_TASK_SERIALIZER", Type: opts.TypeString, Default: "pickle"},
		{
			Name: "CELERYBEAT_SCHEDULE",
			Type: opts.TypeMapping,
			Default: opts.MapOf(
				"refresh", opts.MapOf("task", "hades.agent.refresh", "schedule", 5*time.Minute),
				"delete-old", opts.MapOf("task", "hades.agent.delete_old", "schedule", time.Hour),
			),
		},
		{Name: "CELERYBEAT_SCHEDULE_FILENAME", Type: opts.TypeString, Default: "/var/lib/hades/agent/celerybeat-schedule"},
	}
}
