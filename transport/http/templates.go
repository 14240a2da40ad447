package http

import "html/template"

const indexTemplateName = "index"

var indexTemplate = template.Must(template.New(indexTemplateName).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Tokens</title>
</head>
<body>
  <h1>Get a token</h1>
  <form method="post" action="/tokens">
    <label for="owner">Owner</label>
    <input id="owner" name="owner" type="text">
    <input name="redirectUrl" type="hidden" value="{{.RedirectURL}}">
    <input name="authHeaderName" type="hidden" value="{{.AuthHeaderName}}">
    <button type="submit">Generate</button>
  </form>
  {{with .Token}}
  <h2>Token for {{.Owner}}</h2>
  <dl>
    <dt>Value</dt><dd id="token-value">{{.Value}}</dd>
    <dt>Created at</dt><dd>{{.CreatedAt.Format "2006-01-02 15:04:05 MST"}}</dd>
    <dt>Authorization</dt><dd id="token-basic">{{.BasicAuthHeaderValue}}</dd>
  </dl>
  {{end}}
  {{if and .Token .AuthHeaderName}}
  <p>Send the value in the <code>{{.AuthHeaderName}}</code> header.</p>
  {{end}}
  {{if and .Token .RedirectURL}}
  <p><a id="redirect" href="{{.RedirectURL}}">Continue</a></p>
  {{end}}
</body>
</html>
`))
