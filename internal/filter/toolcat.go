package filter

import "strings"

// Category is the coarse classification of a tool name.
type Category string

const (
	CategoryFile     Category = "file"
	CategorySearch   Category = "search"
	CategoryExec     Category = "exec"
	CategoryWeb      Category = "web"
	CategorySubagent Category = "subagent"
	CategoryMCP      Category = "mcp"
	CategoryOther    Category = "other"
)

// categoryRules is evaluated in order; the first matching rule wins. The
// mcp rule matches by prefix and must come first so MCP-provided tools like
// mcp__search_docs do not fall into the substring categories.
var categoryRules = []struct {
	category Category
	prefix   bool
	keywords []string
}{
	{CategoryMCP, true, []string{"mcp"}},
	{CategorySubagent, false, []string{"subagent", "agent", "task"}},
	{CategoryFile, false, []string{"read", "write", "edit", "file", "notebook"}},
	{CategorySearch, false, []string{"search", "grep", "glob", "find"}},
	{CategoryExec, false, []string{"bash", "exec", "shell", "command", "run"}},
	{CategoryWeb, false, []string{"web", "fetch", "http", "browser"}},
}

// Categorize classifies a tool name. Matching is case-insensitive; names
// matching no rule are CategoryOther.
func Categorize(toolName string) Category {
	name := strings.ToLower(toolName)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if rule.prefix {
				if strings.HasPrefix(name, kw) {
					return rule.category
				}
			} else if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
