package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreComment = "# bonsai view state"

// EnsureStateDirIgnored makes sure .bonsai/ is listed in projectDir's
// .gitignore, creating the file if needed. It is idempotent and keeps
// existing content as is.
func EnsureStateDirIgnored(projectDir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	path := filepath.Join(projectDir, ".gitignore")
	present, err := isIgnored(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if present {
		return nil
	}
	return appendToGitignore(path, DirName+"/")
}

// isIgnored reports whether a non-comment line of the file covers DirName.
func isIgnored(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if coversStateDir(line) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

func coversStateDir(line string) bool {
	switch strings.TrimPrefix(line, "/") {
	case DirName, DirName + "/", DirName + "/*", DirName + "/**", DirName + "/**/*":
		return true
	}
	return false
}

func appendToGitignore(path, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) == 0 {
		toWrite = gitignoreComment + "\n" + pattern + "\n"
	} else {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n" + gitignoreComment + "\n" + pattern + "\n"
	}

	_, err = file.WriteString(toWrite)
	return err
}
