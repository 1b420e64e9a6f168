// Package sharedfile reads and writes the catalog of custom products that is
// shared between every session using the same shopping list.
package sharedfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"shoplist/internal/models"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the shared document does not exist yet
var ErrNotFound = errors.New("shared catalog not found")

// Source is a shared custom-product catalog
type Source interface {
	Read(ctx context.Context) (models.Catalog, error)
	Write(ctx context.Context, c models.Catalog) error
}

// FileEnv is the environment variable holding the target path for Command
const FileEnv = "SHOPLIST_FILE"

// FileSource is a shared catalog kept in a JSON file. When Command is set,
// writes are delegated to it: the command runs under `sh -c` with the JSON
// document on stdin and FileEnv pointing at Path.
type FileSource struct {
	Path    string
	Command string

	log *zap.Logger
}

// NewFileSource creates a file-backed source
func NewFileSource(path, command string, log *zap.Logger) *FileSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileSource{Path: path, Command: strings.TrimSpace(command), log: log}
}

// Decode parses a shared catalog document
func Decode(data []byte) (models.Catalog, error) {
	var c models.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode shared catalog: %w", err)
	}
	if c == nil {
		c = models.Catalog{}
	}
	return c, nil
}

// Encode renders a catalog as a shared catalog document
func Encode(c models.Catalog) ([]byte, error) {
	if c == nil {
		c = models.Catalog{}
	}
	return json.MarshalIndent(c, "", "  ")
}

func (s *FileSource) Read(ctx context.Context) (models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Decode(data)
}

func (s *FileSource) Write(ctx context.Context, c models.Catalog) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}

	if s.Command != "" {
		return s.runCommand(ctx, data)
	}
	return writeAtomic(s.Path, data)
}

func (s *FileSource) runCommand(ctx context.Context, data []byte) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", s.Command)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Env = append(os.Environ(), FileEnv+"="+s.Path)

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("shared catalog command failed: %w: %s", err, msg)
		}
		return fmt.Errorf("shared catalog command failed: %w", err)
	}
	s.log.Debug("shared catalog written by command", zap.String("path", s.Path))
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
