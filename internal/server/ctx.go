package server

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
)

// Context holds dependencies for request handlers: the directory that sweep
// artifacts were written to.
type Context struct {
	Dir string
}

// NewContext validates the artifact directory and initializes the handler
// context.
func NewContext(dir string) (*Context, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: dir, Err: os.ErrInvalid}
	}

	log.Info().Str("dir", dir).Msg("Serving sweep artifacts")
	return &Context{Dir: dir}, nil
}

// artifacts lists the regular files in the artifact directory, sorted.
func (s *Context) artifacts() []string {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		log.Error().Err(err).Str("dir", s.Dir).Msg("Failed to read artifact directory")
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, filepath.Base(e.Name()))
	}
	sort.Strings(names)

	return names
}
