package authweb

import (
	"html/template"
)

// indexTemplate renders the account overview plus the outcome of an
// authorization callback.
const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Microsoft To Do Bridge</title>
{{if .Refresh}}<meta http-equiv="refresh" content="10; url={{.RedirectURI}}">{{end}}
<style>
body { font-family: sans-serif; margin: 2em; }
.block { padding: 0.8em; margin: 0.5em 0; border: 1px solid #ccc; border-radius: 4px; }
.authorized { border-color: #2e7d32; }
.error { border-color: #c62828; color: #c62828; }
a.button { display: inline-block; padding: 0.4em 0.8em; background: #0067b8; color: #fff; text-decoration: none; border-radius: 3px; }
</style>
</head>
<body>
<h1>Microsoft To Do Bridge</h1>
{{if .AuthorizedUser}}<p class="block authorized">Account authorized for user {{.AuthorizedUser}}.</p>{{end}}
{{if .Error}}<p class="block error">Call to Microsoft failed with error: {{.Error}}{{if .ErrorDescription}} ({{.ErrorDescription}}){{end}}</p>{{end}}
{{if not .Accounts}}<p class="block">Configure a Microsoft account to authorize it here.</p>{{end}}
{{range .Accounts}}
<div class="block{{if .Authorized}} authorized{{end}}">
<strong>{{.ID}}</strong>
{{if .Authorized}}(Authorized user: {{.Name}}{{if .Email}}, {{.Email}}{{end}}){{end}}
<p><a class="button" href="{{.AuthorizeURL}}">Authorize</a></p>
</div>
{{end}}
</body>
</html>
`

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

// accountView is one account row on the index page.
type accountView struct {
	ID           string
	Name         string
	Email        string
	Authorized   bool
	AuthorizeURL string
}

// pageData feeds the index template.
type pageData struct {
	RedirectURI      string
	Refresh          bool
	AuthorizedUser   string
	Error            string
	ErrorDescription string
	Accounts         []accountView
}
