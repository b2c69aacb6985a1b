package email

import (
	"html/template"
	"strings"
)

var reportBodyTmpl = template.Must(template.New("reportBody").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
        <h1 style="margin: 0; font-size: 28px;">Company Research Report</h1>
        <p style="margin: 10px 0 0 0; font-size: 16px; opacity: 0.9;">Multi-Source Business Intelligence</p>
    </div>

    <div style="background: white; padding: 30px; border-radius: 0 0 10px 10px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
        <h2 style="color: #667eea; margin: 0 0 20px 0;">Report Ready: {{.CompanyName}}</h2>

        <p>Your company research report has been generated successfully.</p>

        <div style="margin: 20px 0; padding: 15px; background-color: #f8f9fa; border-radius: 5px; border-left: 4px solid #667eea;">
            <h3 style="margin: 0 0 10px 0; color: #495057;">Report Includes:</h3>
            <ul style="margin: 0; padding-left: 20px;">
                <li>Company overview and key metrics</li>
                <li>Recent news and market updates</li>
                <li>Major customers and partnerships</li>
                <li>Competitive landscape analysis</li>
                <li>Financial and growth insights</li>
            </ul>
        </div>
{{if .StorageLink}}
        <div style="margin: 20px 0; padding: 15px; background-color: #e8f5e8; border-radius: 5px; border-left: 4px solid #28a745;">
            <h3 style="margin: 0 0 10px 0; color: #155724;">Cloud Storage Access</h3>
            <p style="margin: 0;">
                <a href="{{.StorageLink}}" style="color: #007bff; text-decoration: none;">View Report in Cloud Storage</a>
            </p>
        </div>
{{end}}
        <div style="margin: 30px 0 20px 0; padding: 15px; background-color: #fff3cd; border-radius: 5px; border-left: 4px solid #ffc107;">
            <h3 style="margin: 0 0 10px 0; color: #856404;">Data Sources</h3>
            <p style="margin: 0;">This report combines data from CoreSignal, Apollo and Tavily for comprehensive business intelligence.</p>
        </div>

        <hr style="border: none; height: 1px; background-color: #e9ecef; margin: 30px 0;">

        <div style="text-align: center; color: #6c757d; font-size: 14px;">
            <p style="margin: 0;">Generated by CompanyIntel Research API</p>
        </div>
    </div>
</body>
</html>
`))

type reportBodyData struct {
	CompanyName string
	StorageLink string
}

// reportBody builds the HTML body for a report delivery email.
// A storage link section is included when the PDF was uploaded to a cloud
// backend; recipients of oversized reports rely on that link.
func reportBody(companyName, storageLink string) string {
	var b strings.Builder
	// The template is static and the data struct matches it; Execute cannot fail.
	reportBodyTmpl.Execute(&b, reportBodyData{
		CompanyName: companyName,
		StorageLink: storageLink,
	})
	return b.String()
}
