package discovery

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// extensionLanguage is the fixed classification table from spec.md §4.3.
var extensionLanguage = map[string]string{
	".php":    "php",
	".phtml":  "php",
	".css":    "css",
	".scss":   "css",
	".sass":   "css",
	".less":   "css",
	".js":     "javascript",
	".jsx":    "javascript",
	".ts":     "javascript",
	".tsx":    "javascript",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".md":     "markdown",
	".markdown": "markdown",
	".html":   "html",
	".htm":    "html",
	".py":     "python",
	".rb":     "ruby",
	".go":     "go",
	".rs":     "rust",
}

// ClassifyExtension returns the language for path's extension and
// whether the extension is recognized.
func ClassifyExtension(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extensionLanguage[ext]
	return lang, ok
}

// shebangInterpreters maps a shebang interpreter's base name to a
// refined language tag for extension-less executable scripts.
var shebangInterpreters = map[string]string{
	"python":  "python",
	"python2": "python",
	"python3": "python",
	"ruby":    "ruby",
	"node":    "javascript",
	"bash":    "shell",
	"sh":      "shell",
	"zsh":     "shell",
	"perl":    "perl",
}

// classifyShebang reads the first line of an extension-less executable
// file and, if it begins with "#!", refines its language from the
// interpreter named there. Returns ("", false) when the file is not an
// executable file starting with "#!", and ("script", true) when the
// interpreter is not one it recognizes.
func classifyShebang(path string, info os.FileInfo) (string, bool) {
	if info.IsDir() || info.Mode()&0111 == 0 {
		return "", false
	}
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	line, _ := reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "#!") {
		return "", false
	}

	interpreterPath := strings.TrimSpace(strings.TrimPrefix(line, "#!"))
	fields := strings.Fields(interpreterPath)
	if len(fields) == 0 {
		return "script", true
	}
	// "#!/usr/bin/env python3" style: the real interpreter is the second field.
	interpreter := fields[0]
	if filepath.Base(interpreter) == "env" && len(fields) > 1 {
		interpreter = fields[1]
	}
	name := filepath.Base(interpreter)
	if lang, ok := shebangInterpreters[name]; ok {
		return lang, true
	}
	return "script", true
}

// ClassifyFile classifies one already-stat'd file the same way Walk does:
// by extension first, falling back to shebang sniffing for extension-less
// executables. Used by the Updater's directory rescan, which discovers one
// file at a time rather than walking a whole tree.
func ClassifyFile(path string, info os.FileInfo) (string, bool) {
	if lang, ok := ClassifyExtension(path); ok {
		return lang, true
	}
	if filepath.Ext(path) == "" {
		return classifyShebang(path, info)
	}
	return "", false
}
