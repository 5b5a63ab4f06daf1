package gateway

// docsHTML is the static documentation page served at the root route, the
// only path reachable without a credential.
const docsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>sqlgate</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
  code, pre { background: #f4f4f4; border-radius: 4px; padding: 0.1rem 0.3rem; }
  pre { padding: 0.6rem; overflow-x: auto; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; border-bottom: 1px solid #ddd; padding: 0.4rem 0.6rem; }
</style>
</head>
<body>
<h1>sqlgate</h1>
<p>A REST gateway over a single SQL database. All endpoints except this page
require the <code>X-API-Key</code> header. Responses are JSON envelopes:
<code>{"success": true, "data": ..., "meta": ...}</code> or
<code>{"success": false, "error": "..."}</code>.</p>

<table>
<tr><th>Method</th><th>Path</th><th>Description</th></tr>
<tr><td>GET</td><td>/tables</td><td>List table names</td></tr>
<tr><td>GET</td><td>/tables/{table}?limit=100&amp;offset=0</td><td>List records</td></tr>
<tr><td>GET</td><td>/tables/{table}/{id}</td><td>Get record by id</td></tr>
<tr><td>POST</td><td>/tables/{table}</td><td>Create record from JSON body</td></tr>
<tr><td>PUT</td><td>/tables/{table}/{id}</td><td>Update record from JSON body</td></tr>
<tr><td>DELETE</td><td>/tables/{table}/{id}</td><td>Delete record</td></tr>
<tr><td>POST</td><td>/query</td><td>Run a raw parameterized statement</td></tr>
</table>

<h2>Examples</h2>
<pre>curl -H "X-API-Key: $KEY" http://localhost:8080/tables

curl -X POST -H "X-API-Key: $KEY" -H "Content-Type: application/json" \
  -d '{"name":"A","email":"a@x.com"}' http://localhost:8080/tables/users

curl -X POST -H "X-API-Key: $KEY" -H "Content-Type: application/json" \
  -d '{"query":"SELECT * FROM users WHERE id = ?","params":[1]}' \
  http://localhost:8080/query</pre>
</body>
</html>
`
