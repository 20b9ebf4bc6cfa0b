package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// The HTML part mirrors the plain-text part so the message degrades
// gracefully on text-only clients.
const htmlBody = `<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .header { background-color: #4CAF50; color: white; padding: 20px; text-align: center; }
  .listing { border: 1px solid #ddd; margin: 20px 0; padding: 15px; border-radius: 8px; background-color: #fafafa; }
  .title { color: #2196F3; font-size: 18px; font-weight: bold; margin-bottom: 10px; }
  .company { color: #FF9800; font-weight: bold; }
  .location { color: #9E9E9E; }
  .description { margin: 10px 0; }
  .link { background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 4px; display: inline-block; margin-top: 10px; }
  .footer { margin-top: 30px; padding: 20px; background-color: #f5f5f5; text-align: center; font-size: 12px; color: #666; }
</style>
</head>
<body>
<div class="header">
  <h1>New Internships Available</h1>
  <p>Found {{len .}} new internship(s)</p>
</div>
{{range .}}
<div class="listing">
  <div class="title">{{.Title}}</div>
  {{if .Company}}<div class="company">{{.Company}}</div>{{end}}
  {{if .Location}}<div class="location">{{.Location}}</div>{{end}}
  {{if .Description}}<div class="description">{{.Description}}</div>{{end}}
  {{if .DetailURL}}<a href="{{.DetailURL}}" class="link" target="_blank">View listing</a>{{end}}
</div>
{{end}}
<div class="footer">
  <p>This is an automated notification from the internship watcher.</p>
</div>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("notification").Parse(htmlBody))

// Subject returns the count-summary subject line for a batch
func Subject(batch Batch) string {
	return fmt.Sprintf("%d New Internship(s) Found", len(batch))
}

// RenderText renders the plain-text representation of a batch
func RenderText(batch Batch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d new internship(s):\n\n", len(batch))

	for i, listing := range batch {
		fmt.Fprintf(&b, "%d. %s\n", i+1, listing.Title)
		if listing.Company != "" {
			fmt.Fprintf(&b, "   Company:  %s\n", listing.Company)
		}
		if listing.Location != "" {
			fmt.Fprintf(&b, "   Location: %s\n", listing.Location)
		}
		if listing.Description != "" {
			fmt.Fprintf(&b, "   %s\n", listing.Description)
		}
		if listing.DetailURL != "" {
			fmt.Fprintf(&b, "   %s\n", listing.DetailURL)
		}
		b.WriteString("\n")
	}

	b.WriteString("This is an automated notification from the internship watcher.\n")
	return b.String()
}

// RenderHTML renders the rich representation of a batch
func RenderHTML(batch Batch) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, batch); err != nil {
		return "", fmt.Errorf("failed to render notification body: %w", err)
	}
	return buf.String(), nil
}
