package email

import (
	"bytes"
	"html/template"
)

// Шаблоны писем держим в коде: их два и они короткие
var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<h2>Welcome to CraftFolio{{if .Name}}, {{.Name}}{{end}}!</h2>
<p>Your account has been created. Build your portfolio and start applying for jobs.</p>
`))

var contactTmpl = template.Must(template.New("contact").Parse(`
<h2>New contact message</h2>
<p><b>From:</b> {{.Name}} &lt;{{.Email}}&gt;</p>
<p>{{.Message}}</p>
`))

func renderWelcome(name string) string {
	var buf bytes.Buffer
	_ = welcomeTmpl.Execute(&buf, map[string]string{"Name": name})
	return buf.String()
}

func renderContactNotification(name, email, message string) string {
	var buf bytes.Buffer
	_ = contactTmpl.Execute(&buf, map[string]string{
		"Name":    name,
		"Email":   email,
		"Message": message,
	})
	return buf.String()
}
