package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email template names.
const (
	TemplateArticleCreated  = "article_created"
	TemplateSubscribe       = "email_subscribe"
	TemplateUnsubscribe     = "email_unsubscribe"
	TemplateReportReceived  = "report_received"
	TemplateViolationAction = "violation_action"
)

var templates = map[string]*template.Template{
	TemplateArticleCreated: template.Must(template.New(TemplateArticleCreated).Parse(`
<html>
<body>
<p>Hi {{.Username}},</p>
<p>{{.Author}}, an author you follow, just published <strong>{{.ArticleTitle}}</strong>.</p>
<p><a href="{{.ArticleURL}}">Read it now</a></p>
<p style="color:#888;font-size:12px">
Don't want these emails? <a href="{{.BaseURL}}/api/notifications/subscription">Unsubscribe</a>.
</p>
</body>
</html>`)),

	TemplateSubscribe: template.Must(template.New(TemplateSubscribe).Parse(`
<html>
<body>
<p>Hi {{.Username}},</p>
<p>You will now receive an email whenever an author you follow publishes a new article.</p>
</body>
</html>`)),

	TemplateUnsubscribe: template.Must(template.New(TemplateUnsubscribe).Parse(`
<html>
<body>
<p>Hi {{.Username}},</p>
<p>You will no longer receive email notifications. In-app notifications are unaffected.</p>
</body>
</html>`)),

	TemplateReportReceived: template.Must(template.New(TemplateReportReceived).Parse(`
<html>
<body>
<p>Hi {{.Username}},</p>
<p>We received your {{.Category}} report on the article <strong>{{.ArticleSlug}}</strong> by {{.Author}}.</p>
<p>Our moderators will review it and take action if needed.</p>
</body>
</html>`)),

	TemplateViolationAction: template.Must(template.New(TemplateViolationAction).Parse(`
<html>
<body>
<p>Hi {{.Username}},</p>
<p>Your article <strong>{{.ArticleTitle}}</strong> was reported by other readers and has been
taken down after moderator review.</p>
</body>
</html>`)),
}

func render(name string, data map[string]string) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
