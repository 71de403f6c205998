package report

import (
	htmltemplate "html/template"
	"strings"
	"text/template"
)

var (
	textTmpl = template.Must(template.New("text").Parse(textTemplate))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlTemplate))
)

// Text renders the plain text summary
func Text(r *Report) (string, error) {
	var b strings.Builder
	if err := textTmpl.Execute(&b, r); err != nil {
		return "", err
	}
	return b.String(), nil
}

// HTML renders the HTML summary
func HTML(r *Report) (string, error) {
	var b strings.Builder
	if err := htmlTmpl.Execute(&b, r); err != nil {
		return "", err
	}
	return b.String(), nil
}
