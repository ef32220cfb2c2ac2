package msauth

import (
	"golang.org/x/oauth2"
)

// Cloud selects a Microsoft national cloud deployment.
type Cloud string

// Supported national clouds.
const (
	CloudGlobal  Cloud = "global"
	CloudUSGov   Cloud = "usgov"
	CloudChina   Cloud = "china"
	CloudGermany Cloud = "germany"
)

// TenantCommon is the multi-tenant endpoint accepting both personal
// Microsoft accounts and Azure AD accounts.
const TenantCommon = "common"

// DefaultScopes are the scopes the bridge requests. offline_access is
// required for refresh tokens.
var DefaultScopes = []string{
	"offline_access",
	"https://graph.microsoft.com/User.Read",
	"https://graph.microsoft.com/Tasks.Read",
}

// loginHosts maps each national cloud to its identity endpoint host.
var loginHosts = map[Cloud]string{
	CloudGlobal:  "login.microsoftonline.com",
	CloudUSGov:   "login.microsoftonline.us",
	CloudChina:   "login.partner.microsoftonline.cn",
	CloudGermany: "login.microsoftonline.de",
}

// Endpoint returns the oauth2 endpoint for the given cloud and tenant.
// Empty values select the global cloud and the common tenant.
func Endpoint(cloud Cloud, tenant string) oauth2.Endpoint {
	host, ok := loginHosts[cloud]
	if !ok {
		host = loginHosts[CloudGlobal]
	}
	if tenant == "" {
		tenant = TenantCommon
	}
	base := "https://" + host + "/" + tenant + "/oauth2/v2.0"
	return oauth2.Endpoint{
		AuthURL:  base + "/authorize",
		TokenURL: base + "/token",
	}
}
