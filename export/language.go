package export

import (
	"path"
	"strings"
)

// detectLanguage picks a fenced-code-block language hint from the file
// extension; unknown extensions get no hint.
func detectLanguage(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".go":
		return "go"
	case ".js", ".mjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".py":
		return "python"
	case ".java":
		return "java"
	case ".c", ".h":
		return "c"
	case ".cpp", ".cc", ".hpp":
		return "cpp"
	case ".cs":
		return "csharp"
	case ".rb":
		return "ruby"
	case ".php":
		return "php"
	case ".swift":
		return "swift"
	case ".rs":
		return "rust"
	case ".kt":
		return "kotlin"
	case ".sh", ".bash":
		return "bash"
	case ".yml", ".yaml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	case ".md":
		return "markdown"
	case ".html":
		return "html"
	case ".css":
		return "css"
	case ".sql":
		return "sql"
	default:
		if strings.EqualFold(path.Base(p), "dockerfile") {
			return "dockerfile"
		}
		if strings.EqualFold(path.Base(p), "makefile") {
			return "makefile"
		}
		return ""
	}
}
