// Package envfile reads KEY=VALUE environment files.
package envfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/joho/godotenv"
)

// Dialect selects how env file lines are interpreted.
type Dialect string

const (
	// DialectPlain splits each line on the first '=' and trims both sides.
	DialectPlain Dialect = "plain"

	// DialectDotenv follows dotenv conventions: quoting, escapes, export prefixes and inline comments.
	DialectDotenv Dialect = "dotenv"
)

// Parse reads the plain dialect.
// Blank lines, lines starting with '#' and lines without '=' are ignored.
// When a key repeats, the last value wins.
func Parse(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	return values, nil
}

// ParseDotenv reads the dotenv dialect.
func ParseDotenv(r io.Reader) (map[string]string, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dotenv file: %w", err)
	}
	return values, nil
}

// ParseDialect reads r using the given dialect.
func ParseDialect(r io.Reader, dialect Dialect) (map[string]string, error) {
	switch dialect {
	case DialectDotenv:
		return ParseDotenv(r)
	case DialectPlain, "":
		return Parse(r)
	}
	return nil, fmt.Errorf("unknown env file dialect '%s'", dialect)
}

// Load reads the env file at path from fs.
// A missing file yields an empty mapping; found reports whether the file existed.
func Load(fs billy.Filesystem, path string, dialect Dialect) (values map[string]string, found bool, err error) {
	content, err := util.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, false, nil
		}
		return nil, false, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	values, err = ParseDialect(bytes.NewReader(content), dialect)
	if err != nil {
		return nil, true, err
	}
	return values, true, nil
}
