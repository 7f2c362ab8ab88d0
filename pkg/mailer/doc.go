// Package mailer sends transactional email through a pluggable provider
// and renders message bodies from templates.
//
// The package has three parts:
//
//   - Sender: the interface providers implement (Mailgun, Resend)
//   - Renderer: turns templates into HTML and plain text
//   - Mailer: combines both behind Send
//
// # Templates
//
// Two template flavours live side by side in the same filesystem:
//
// Markdown templates (".md") carry optional YAML frontmatter and are
// executed with text/template, then converted to HTML with goldmark:
//
//	---
//	Subject: Confirm your subscription
//	---
//	Hi there!
//
//	[!button|Confirm my subscription]({{.ConfirmURL}})
//
// HTML templates (".html") skip markdown entirely and are executed with
// html/template, so data is escaped contextually. Use them for messages
// that embed user-supplied text:
//
//	---
//	Subject: "Contact form: {{.Name}}"
//	---
//	<p><strong>Name:</strong> {{.Name}}</p>
//
// Both are wrapped in a layout from the layout directory, which receives
// the rendered body as {{.Content}}.
//
// # Subjects
//
// Subject resolution: SendParams.Subject, then the template's "Subject"
// frontmatter, then Config.FallbackSubject. The chosen subject is itself
// executed as a text/template against the send data.
//
// # Button syntax
//
// The goldmark button extension renders [!button|Label](URL) as
// <a href="URL" class="btn">Label</a>.
package mailer
