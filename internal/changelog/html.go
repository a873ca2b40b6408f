package changelog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; background: #282a36; color: #f8f8f2; }
  h1 { color: #bd93f9; }
  h2 { color: #8be9fd; border-bottom: 1px solid #44475a; padding-bottom: 4px; }
  h3 { color: #f1fa8c; }
  a { color: #8be9fd; }
  li { margin: 4px 0; }
  code { background: #343746; padding: 2px 6px; border-radius: 4px; font-size: 0.9em; }
  pre { background: #343746; padding: 12px; border-radius: 8px; overflow-x: auto; }
  blockquote { border-left: 3px solid #6272a4; margin-left: 0; padding-left: 16px; color: #6272a4; }
  footer { margin-top: 32px; color: #6272a4; font-size: 0.85em; }
</style>
</head>
<body>
<h1>%s</h1>
%s<footer>Generated by <strong>scribe</strong></footer>
</body>
</html>
`

// RenderHTML converts generated Markdown into a standalone HTML page.
func RenderHTML(title, markdown string) (string, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	safe := htmlEscape(title)
	return fmt.Sprintf(htmlShell, safe, safe, body.String()), nil
}

func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
