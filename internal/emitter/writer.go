package emitter

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"envtypes/internal/schema"
)

// Emit renders vars with e and writes the result into dir, creating the
// directory if needed. It returns the path of the written file.
//
// The file is written to a temporary name first and renamed into place, so
// readers never observe a partially written accessor.
func Emit(fs billy.Filesystem, e Emitter, vars []schema.VariableDefinition, dir string) (string, error) {
	return writeFile(fs, dir, e.Filename(), e.Render(vars))
}

// writeFile atomically replaces dir/name with data.
func writeFile(fs billy.Filesystem, dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	path := fs.Join(dir, name)

	tmp, err := util.TempFile(fs, dir, "."+name+".tmp-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return "", fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return path, nil
}
