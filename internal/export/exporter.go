package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/cmcol/internal/audio"
	"github.com/handiism/cmcol/internal/config"
	"github.com/handiism/cmcol/internal/document"
	ioutils "github.com/handiism/cmcol/internal/io"
	"github.com/handiism/cmcol/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an export progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Element and attribute names of the catalog.
const (
	ElementCollection = "collection"
	ElementFile       = "file"
	AttrRoot          = "root"
	AttrName          = "name"
)

// Exporter turns a directory tree into an XML catalog.
//
// An Exporter keeps no state between runs apart from its progress counters,
// so the same value can export several roots one after the other.
type Exporter struct {
	settings *config.Settings
	probe    audio.Probe
	stdout   io.Writer

	probedFiles int32
	totalFiles  int32

	onProgress func(ProgressEvent)
}

// NewExporter creates a new Exporter.
//
// Parameters:
//   - settings: Jobs, Exclude, IgnoreFile and RelativeNames are used
//   - probe: Tag reader; audio.DefaultProbe() in production
//   - onProgress: Optional callback, may be nil; called from several
//     goroutines when settings.Jobs > 1
func NewExporter(settings *config.Settings, probe audio.Probe, onProgress func(ProgressEvent)) *Exporter {
	return &Exporter{
		settings:   settings,
		probe:      probe,
		stdout:     os.Stdout,
		onProgress: onProgress,
	}
}

// SetStdout replaces the writer used for the "-" destination.
func (e *Exporter) SetStdout(w io.Writer) {
	e.stdout = w
}

// Export builds the catalog of root and writes it to dest.
//
// Nothing is written when the scan of root fails. dest is "-" for stdout or
// a file path that is overwritten.
//
// Example:
//
//	exporter := export.NewExporter(config.DefaultSettings(), audio.DefaultProbe(), nil)
//	err := exporter.Export(ctx, "/music", "catalog.xml")
func (e *Exporter) Export(ctx context.Context, root, dest string) error {
	collection, err := e.Build(ctx, root)
	if err != nil {
		return err
	}
	return e.Write(collection, dest)
}

// Build scans root, sorts the discovered paths and probes each of them.
//
// Files the probe rejects are left out of the collection. The entry order
// is the sorted path order regardless of settings.Jobs.
func (e *Exporter) Build(ctx context.Context, root string) (*model.Collection, error) {
	paths, err := ioutils.CollectFiles(root, ioutils.WalkOptions{
		Exclude:    e.settings.Exclude,
		IgnoreFile: e.settings.IgnoreFile,
	})
	if err != nil {
		return nil, err
	}
	ioutils.SortPaths(paths)

	atomic.StoreInt32(&e.totalFiles, int32(len(paths)))
	atomic.StoreInt32(&e.probedFiles, 0)
	e.progress(ProgressEvent{Message: fmt.Sprintf("Found %d files under %s", len(paths), root), Level: LevelInfo})

	records, err := e.probeAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	collection := &model.Collection{Root: root}
	for i, rec := range records {
		if rec != nil {
			collection.Add(paths[i], *rec, e.settings.RelativeNames)
		}
	}

	e.progress(ProgressEvent{
		Message: fmt.Sprintf("Catalogued %d of %d files", collection.Len(), len(paths)),
		Level:   LevelSuccess,
	})
	return collection, nil
}

// probeAll reads every path on at most settings.Jobs goroutines. The result
// at index i belongs to paths[i] and is nil when the probe rejected it.
func (e *Exporter) probeAll(ctx context.Context, paths []string) ([]*model.TagRecord, error) {
	records := make([]*model.TagRecord, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.settings.Jobs, 1))

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rec, err := e.probe.Read(path)
			atomic.AddInt32(&e.probedFiles, 1)
			if err != nil {
				e.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: %v", path, err), Level: LevelVerbose})
				return nil
			}

			if rec.IsEmpty() {
				e.progress(ProgressEvent{Message: fmt.Sprintf("No tags in %s", path), Level: LevelVerbose})
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Write renders collection and writes it to dest.
func (e *Exporter) Write(collection *model.Collection, dest string) error {
	doc := document.NewDocument()
	if err := Render(doc, collection); err != nil {
		return err
	}

	err := ioutils.WriteDestination(dest, e.stdout, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	})
	if err != nil {
		e.progress(ProgressEvent{Message: fmt.Sprintf("Error writing %s: %v", dest, err), Level: LevelError})
		return err
	}

	e.progress(ProgressEvent{Message: fmt.Sprintf("Wrote catalog to %s", dest), Level: LevelVerbose})
	return nil
}

// GetProgress returns how many of the discovered files have been probed.
func (e *Exporter) GetProgress() (probed, total int32) {
	return atomic.LoadInt32(&e.probedFiles), atomic.LoadInt32(&e.totalFiles)
}

// Render emits collection through b: one collection element carrying the
// root attribute and one file element per entry with its present fields.
func Render(b document.Builder, collection *model.Collection) error {
	if err := b.StartElement(ElementCollection); err != nil {
		return err
	}
	if err := b.WriteAttribute(AttrRoot, collection.Root); err != nil {
		return err
	}

	for _, entry := range collection.Entries {
		if err := b.StartElement(ElementFile); err != nil {
			return err
		}
		if err := b.WriteAttribute(AttrName, entry.Name); err != nil {
			return err
		}
		for _, field := range entry.Tags.Fields() {
			if err := b.WriteElement(field.Name, field.Value); err != nil {
				return err
			}
		}
		if err := b.EndElement(); err != nil {
			return err
		}
	}

	return b.EndElement()
}

func (e *Exporter) progress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
