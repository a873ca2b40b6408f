package prompt

import "strings"

// gitmojiEntries is the working set of gitmoji the prompts offer the
// model. Code and meaning only; the emoji itself goes in the message.
var gitmojiEntries = []struct {
	Emoji string
	Desc  string
}{
	{"✨", "introduce a new feature"},
	{"🐛", "fix a bug"},
	{"📝", "add or update documentation"},
	{"♻️", "refactor code"},
	{"✅", "add, update, or pass tests"},
	{"🎨", "improve structure or format of the code"},
	{"⚡️", "improve performance"},
	{"🔥", "remove code or files"},
	{"🚑️", "critical hotfix"},
	{"🔒️", "fix security or privacy issues"},
	{"🔧", "add or update configuration files"},
	{"⬆️", "upgrade dependencies"},
	{"⬇️", "downgrade dependencies"},
	{"📌", "pin dependencies to specific versions"},
	{"👷", "add or update CI build system"},
	{"💄", "add or update the UI and style files"},
	{"🚚", "move or rename resources"},
	{"🎉", "begin a project"},
}

// GitmojiGuide renders the emoji cheat sheet appended to system prompts
// when gitmoji mode is on.
func GitmojiGuide() string {
	var b strings.Builder
	b.WriteString("Begin the subject line with the single most fitting gitmoji:\n")
	for _, e := range gitmojiEntries {
		b.WriteString("  ")
		b.WriteString(e.Emoji)
		b.WriteString(" - ")
		b.WriteString(e.Desc)
		b.WriteString("\n")
	}
	return b.String()
}
