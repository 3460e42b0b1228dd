package markdown

import "strings"

// Notion only accepts code block languages from a fixed list.  Anything else is uploaded as
// "plain text".
var languages = map[string]string{
	"bash":       "bash",
	"sh":         "shell",
	"shell":      "shell",
	"zsh":        "shell",
	"powershell": "powershell",
	"ps1":        "powershell",
	"c":          "c",
	"cpp":        "c++",
	"c++":        "c++",
	"csharp":     "c#",
	"cs":         "c#",
	"c#":         "c#",
	"css":        "css",
	"diff":       "diff",
	"docker":     "docker",
	"dockerfile": "docker",
	"go":         "go",
	"golang":     "go",
	"graphql":    "graphql",
	"html":       "html",
	"java":       "java",
	"javascript": "javascript",
	"js":         "javascript",
	"jsx":        "javascript",
	"json":       "json",
	"kotlin":     "kotlin",
	"makefile":   "makefile",
	"make":       "makefile",
	"markdown":   "markdown",
	"md":         "markdown",
	"mermaid":    "mermaid",
	"php":        "php",
	"python":     "python",
	"py":         "python",
	"ruby":       "ruby",
	"rb":         "ruby",
	"rust":       "rust",
	"rs":         "rust",
	"scala":      "scala",
	"sql":        "sql",
	"swift":      "swift",
	"typescript": "typescript",
	"ts":         "typescript",
	"tsx":        "typescript",
	"xml":        "xml",
	"yaml":       "yaml",
	"yml":        "yaml",
}

func language(info string) string {
	if lang, ok := languages[strings.ToLower(strings.TrimSpace(info))]; ok {
		return lang
	}
	return "plain text"
}
