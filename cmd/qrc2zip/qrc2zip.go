// Command qrc2zip extracts compiled Qt resources into a zip file.
package main

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qtgo/qrc"
	"github.com/spf13/pflag"
)

type QRC2Zip struct {
	Output    string
	Force     bool
	Recursive bool
	Exclude   []string
	List      bool
	Cat       string
	Verbose   bool

	Stdout io.Writer
	Log    *slog.Logger
}

func main() {
	q2z := QRC2Zip{Stdout: os.Stdout}
	var help bool

	pflag.CommandLine.SortFlags = false
	pflag.StringVarP(&q2z.Output, "output", "o", "resources.zip", "Output filename")
	pflag.BoolVarP(&q2z.Force, "force", "f", false, "Ignore errors during extraction if possible")
	pflag.BoolVarP(&q2z.Recursive, "recursive", "r", false, "Expand nested RCC files")
	pflag.StringArrayVarP(&q2z.Exclude, "exclude", "e", nil, "Exclude files matching this glob (can be specified multiple times)")
	pflag.BoolVarP(&q2z.List, "list", "l", false, "List the resources instead of extracting them")
	pflag.StringVarP(&q2z.Cat, "cat", "c", "", "Write a single resource (e.g. :/qml/main.qml) to stdout instead of extracting")
	pflag.BoolVarP(&q2z.Verbose, "verbose", "v", false, "Show information about the files being extracted")
	pflag.BoolVarP(&help, "help", "h", false, "Show this help text")
	pflag.Parse()

	if help || (pflag.NArg() != 1 && pflag.NArg() != 5) {
		fmt.Fprint(os.Stderr, usage(os.Args[0], pflag.CommandLine.FlagUsages()))
		if help {
			os.Exit(0)
		}
		os.Exit(2)
	}

	level := slog.LevelWarn
	if q2z.Verbose {
		level = slog.LevelDebug
	}
	q2z.Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	qrc.SetLogger(q2z.Log)

	var (
		b   qrc.Bundle
		err error
	)
	switch pflag.NArg() {
	case 1:
		b, err = LoadRCC(pflag.Arg(0))
	case 5:
		var nums [4]int64
		for i, name := range []string{"format version", "tree offset", "data offset", "names offset"} {
			if nums[i], err = strconv.ParseInt(pflag.Arg(i+1), 10, 64); err != nil {
				fmt.Fprintf(os.Stderr, "Error: parse %s %q: %v.\n", name, pflag.Arg(i+1), err)
				os.Exit(2)
			}
		}
		b, err = LoadRaw(pflag.Arg(0), int(nums[0]), nums[1], nums[2], nums[3])
	}
	if err == nil {
		err = q2z.Run(b)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v.\n", err)
		os.Exit(1)
	}
}

func usage(prog, flags string) string {
	return fmt.Sprintf(""+
		"Usage: %s [options] rcc_file\n"+
		"       %s [options] executable format_version tree_offset data_offset names_offset\n"+
		"\nOptions:\n"+
		"%s"+
		"\nExecutable offsets:\n"+
		"  To find executable offsets and format version, look for calls to qRegisterResourceData. These\n"+
		"  are usually within entry points or qInitResource* functions. qRegisterResourceData takes four\n"+
		"  arguments: format, tree, names, data.\n"+
		"\nQt support:\n"+
		"  Format versions 1-3 are supported. Resources can be compressed with zlib or zstd.\n"+
		"\nOutput:\n"+
		"  The extracted resources are written to a zip file. The directory structure is preserved and\n"+
		"  separated with forward slashes on all platforms. If the file has language/country constraints,\n"+
		"  they are added to the filename before the extension in the format '[country!CountryName]'\n"+
		"  then '[language!LanguageName]'. If the Qt resource format is >= 2, the modification time is also\n"+
		"  written for each file.\n",
		prog, prog, flags,
	)
}

// LoadRCC reads a standalone RCC file.
func LoadRCC(rcc string) (qrc.Bundle, error) {
	buf, err := os.ReadFile(rcc)
	if err != nil {
		return qrc.Bundle{}, fmt.Errorf("read rcc file: %w", err)
	}
	b, err := qrc.BundleFromRCC(buf)
	if err != nil {
		return qrc.Bundle{}, fmt.Errorf("parse rcc file %q: %w", rcc, err)
	}
	return b, nil
}

// LoadRaw reads resources embedded in a file at the offsets which would be
// passed to qRegisterResourceData.
func LoadRaw(file string, formatVersion int, treeOffset, dataOffset, namesOffset int64) (qrc.Bundle, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return qrc.Bundle{}, fmt.Errorf("read file: %w", err)
	}
	for _, off := range []int64{treeOffset, dataOffset, namesOffset} {
		if off < 0 || off > int64(len(buf)) {
			return qrc.Bundle{}, fmt.Errorf("offset %d out of range for %q (size %d)", off, file, len(buf))
		}
	}
	return qrc.Bundle{
		Version: formatVersion,
		Tree:    buf[treeOffset:],
		Names:   buf[namesOffset:],
		Payload: buf[dataOffset:],
	}, nil
}

// Run registers the bundle and performs the selected action.
func (q2z QRC2Zip) Run(b qrc.Bundle) error {
	qrc.RegisterResourceData(b.Version, b.Tree, b.Names, b.Payload)

	switch {
	case q2z.Cat != "":
		rc, err := qrc.Open(q2z.Cat)
		if err != nil {
			return err
		}
		defer rc.Close()
		if _, err := io.Copy(q2z.Stdout, rc); err != nil {
			return fmt.Errorf("write %q: %w", q2z.Cat, err)
		}
		return nil
	case q2z.List:
		r, err := b.Reader()
		if err != nil {
			return fmt.Errorf("open resources: %w", err)
		}
		return q2z.walk(r, func(rpath string, entry *qrc.ReaderEntry) error {
			if entry.IsDir() {
				_, err := fmt.Fprintf(q2z.Stdout, ":/%s/\n", rpath)
				return err
			}
			_, err := fmt.Fprintf(q2z.Stdout, ":/%s%s\n", rpath, constraintSuffix(entry))
			return err
		})
	default:
		r, err := b.Reader()
		if err != nil {
			return fmt.Errorf("open resources: %w", err)
		}
		return q2z.writeZip(r)
	}
}

func (q2z QRC2Zip) writeZip(r *qrc.Reader) error {
	fon := filepath.Join(filepath.Dir(q2z.Output), "."+filepath.Base(q2z.Output)+".tmp")
	defer os.Remove(fon)

	fo, err := os.OpenFile(fon, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create output temp file: %w", err)
	}
	defer fo.Close()

	zw := zip.NewWriter(fo)
	if err := q2z.walk(r, func(rpath string, entry *qrc.ReaderEntry) error {
		if entry.IsDir() {
			return nil
		}
		return addFile(zw, rpath, entry)
	}); err != nil {
		return fmt.Errorf("generate zip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("generate zip: %w", err)
	}

	if err := fo.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}

	if err := os.Rename(fon, q2z.Output); err != nil {
		return fmt.Errorf("rename temp file %q to output file %q: %w", fon, q2z.Output, err)
	}
	return nil
}

// walk applies exclusions, logging and --force error handling around fn.
func (q2z QRC2Zip) walk(r *qrc.Reader, fn func(rpath string, entry *qrc.ReaderEntry) error) error {
	log := q2z.logger()
	return r.Walk(func(rpath string, entry *qrc.ReaderEntry, err error) error {
		for _, p := range q2z.Exclude {
			if m, err := path.Match(p, rpath); err != nil {
				return fmt.Errorf("check for match against skip pattern %q: %w", p, err)
			} else if m {
				log.Debug("skip", "path", rpath, "pattern", p)
				return filepath.SkipDir
			}
		}
		var offset, size int64
		if err == nil && entry != nil {
			offset = entry.Offset()
			size, err = entry.Size()
		}
		if err != nil {
			if q2z.Force {
				log.Warn("ignoring error", "path", rpath, "error", err)
				return nil
			}
			return err
		}
		if entry.IsDir() {
			log.Debug("dir", "path", rpath, "offset", offset, "size", size)
		} else {
			log.Debug("file", "path", rpath, "offset", offset, "size", size, "flags", entry.Flags())
		}
		if err := fn(rpath, entry); err != nil {
			if q2z.Force && !errors.Is(err, filepath.SkipDir) {
				log.Warn("ignoring error", "path", rpath, "error", err)
				return nil
			}
			return err
		}
		return nil
	}, q2z.Recursive)
}

func (q2z QRC2Zip) logger() *slog.Logger {
	if q2z.Log != nil {
		return q2z.Log
	}
	return slog.Default()
}

func addFile(w *zip.Writer, rpath string, entry *qrc.ReaderEntry) error {
	f := rpath
	if c := constraintSuffix(entry); c != "" {
		f = strings.TrimSuffix(rpath, path.Ext(rpath)) + c + path.Ext(rpath)
	}

	d, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open resource %q: %w", rpath, err)
	}
	defer d.Close()

	z, err := w.CreateHeader(&zip.FileHeader{
		Name:     f, // already separated with slashes
		Method:   zip.Deflate,
		Modified: entry.ModTime(),
	})
	if err != nil {
		return fmt.Errorf("create zip header for %q: %w", f, err)
	}

	if _, err := io.Copy(z, d); err != nil {
		return fmt.Errorf("write contents of %q: %w", f, err)
	}
	return nil
}

func constraintSuffix(entry *qrc.ReaderEntry) string {
	var c string
	x, y := entry.Constraints()
	if x != qrc.CountryAnyCountry {
		c += "[country!" + x.String() + "]"
	}
	if y != qrc.LanguageAnyLanguage && y != qrc.LanguageC {
		c += "[language!" + y.String() + "]"
	}
	return c
}
