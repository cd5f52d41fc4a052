package assets

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

var compressible = map[string]bool{
	".js":   true,
	".css":  true,
	".html": true,
	".json": true,
	".map":  true,
	".svg":  true,
	".txt":  true,
}

// precompress writes a .gz copy of every compressible file in the output
// directory.
func (p *Pipeline) precompress() (int, error) {
	count := 0
	err := filepath.WalkDir(p.outdir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !compressible[filepath.Ext(path)] {
			return nil
		}
		if err := gzipFile(path); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}

	log.Debug().Int("files", count).Msg("Precompressed output")
	return count, nil
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}

	zw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		_ = out.Close()
		return err
	}
	zw.Name = filepath.Base(path)

	if _, err := io.Copy(zw, in); err != nil {
		_ = zw.Close()
		_ = out.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
