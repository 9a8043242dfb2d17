// Package providers imports all DNS provider packages to trigger their init() registration.
package providers

import (
	_ "github.com/yuriy-kovalchuk/yk-ddns/internal/dns/cloudflare"
	_ "github.com/yuriy-kovalchuk/yk-ddns/internal/dns/digitalocean"
	_ "github.com/yuriy-kovalchuk/yk-ddns/internal/dns/file"
	_ "github.com/yuriy-kovalchuk/yk-ddns/internal/dns/opnsense"
	_ "github.com/yuriy-kovalchuk/yk-ddns/internal/dns/rfc2136"
	_ "github.com/yuriy-kovalchuk/yk-ddns/internal/dns/route53"
)
