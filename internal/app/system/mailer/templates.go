// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// InviteEmailData holds data for team invite email templates.
type InviteEmailData struct {
	SiteName    string
	TeamName    string
	InviterName string
	AcceptLink  string
	ExpiresIn   string // e.g., "14 days"
}

// BuildInviteEmail creates a team invite email with both HTML and text bodies.
func BuildInviteEmail(to string, data InviteEmailData) Email {
	return Email{
		To:       to,
		Subject:  fmt.Sprintf("You've been invited to join %s on %s", data.TeamName, data.SiteName),
		TextBody: buildInviteText(data),
		HTMLBody: buildInviteHTML(data),
	}
}

func buildInviteText(data InviteEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s has invited you to join the team %s on %s.\n\n", data.InviterName, data.TeamName, data.SiteName))
	buf.WriteString("Accept the invite here:\n")
	buf.WriteString(data.AcceptLink + "\n\n")
	buf.WriteString(fmt.Sprintf("This invite expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you were not expecting this invite, you can safely ignore this email.\n")
	return buf.String()
}

func buildInviteHTML(data InviteEmailData) string {
	tmpl := template.Must(template.New("invite").Parse(inviteHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const inviteHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Team Invite</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                {{.InviterName}} has invited you to join the team <strong>{{.TeamName}}</strong>.
              </p>
              <div style="text-align: center; margin-bottom: 24px;">
                <a href="{{.AcceptLink}}" style="display: inline-block; background-color: #4f46e5; color: #ffffff; font-size: 16px; font-weight: 600; text-decoration: none; padding: 12px 32px; border-radius: 8px;">Accept Invite</a>
              </div>
              <p style="margin: 0; font-size: 14px; color: #6b7280; text-align: center;">
                This invite expires in {{.ExpiresIn}}. If you were not expecting it, you can safely ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
