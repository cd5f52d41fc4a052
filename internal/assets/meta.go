package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/enactpack/internal/settings"
)

// ResourcesDir holds the application's iLib string and locale resources.
const ResourcesDir = "resources"

// ErrPathCase indicates an import used different casing than the file on disk.
var ErrPathCase = errors.New("path casing does not match the file on disk")

// copyWebOSMeta copies the first appinfo.json found and the assets it
// references into the output directory.
func (p *Pipeline) copyWebOSMeta() error {
	for _, candidate := range settings.AppInfoPaths(p.config.Context) {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}

		info, err := settings.ReadAppInfo(candidate)
		if err != nil {
			return err
		}

		if err := copyFile(candidate, filepath.Join(p.outdir(), "appinfo.json")); err != nil {
			return err
		}

		base := filepath.Dir(candidate)
		for _, asset := range info.Assets() {
			if filepath.IsAbs(asset) || strings.HasPrefix(filepath.Clean(asset), "..") {
				return fmt.Errorf("appinfo asset %q is outside %s", asset, base)
			}
			if err := copyFile(filepath.Join(base, asset), filepath.Join(p.outdir(), asset)); err != nil {
				return err
			}
		}

		log.Debug().Str("appinfo", candidate).Strs("assets", info.Assets()).Msg("Copied webOS meta")
		return nil
	}
	return nil
}

// copyResources copies the iLib resources directory when present.
func (p *Pipeline) copyResources() error {
	src := filepath.Join(p.config.Context, ResourcesDir)
	fi, err := os.Stat(src)
	if err != nil || !fi.IsDir() {
		return nil
	}

	dst := filepath.Join(p.outdir(), ResourcesDir)
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		return copyFile(path, filepath.Join(dst, rel))
	})
	if err != nil {
		return err
	}

	log.Debug().Str("dir", dst).Msg("Copied iLib resources")
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// checkPathCase verifies every bundled input matches the casing on disk,
// which case-insensitive file systems would otherwise hide.
func (p *Pipeline) checkPathCase(meta *BuildMetadata) error {
	listings := map[string]map[string]bool{}

	var mismatched []string
	for input := range meta.Inputs {
		// virtual modules carry a namespace prefix
		if strings.Contains(input, ":") {
			continue
		}
		rel := filepath.FromSlash(input)
		if !casedPath(p.config.Context, rel, listings) {
			mismatched = append(mismatched, input)
		}
	}

	if len(mismatched) > 0 {
		return fmt.Errorf("%w: %s", ErrPathCase, strings.Join(mismatched, ", "))
	}
	return nil
}

// casedPath reports whether each component of rel below root exists with
// exactly that name. Components above root are not checked.
func casedPath(root, rel string, listings map[string]map[string]bool) bool {
	dir := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			dir = filepath.Dir(dir)
			continue
		}

		names, ok := listings[dir]
		if !ok {
			names = map[string]bool{}
			entries, err := os.ReadDir(dir)
			if err != nil {
				// unreadable directories are not a casing problem
				return true
			}
			for _, e := range entries {
				names[e.Name()] = true
			}
			listings[dir] = names
		}

		if !names[part] {
			return false
		}
		dir = filepath.Join(dir, part)
	}
	return true
}
