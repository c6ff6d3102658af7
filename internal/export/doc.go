// Package export builds the XML catalog of a music directory.
//
// # Exporter
//
// The Exporter coordinates the whole run:
//
//  1. Collect every regular file under the scan root
//  2. Sort the paths byte-wise
//  3. Probe each path for tags, skipping files that are not media
//  4. Emit one file element per recognized path
//  5. Write the document to stdout or a file
//
// # Basic Usage
//
//	exporter := export.NewExporter(settings, audio.DefaultProbe(), func(event export.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := exporter.Export(ctx, "/music", "-"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// settings.Jobs bounds how many files are probed in parallel. Results are
// stored by index, so the document is identical for any Jobs value.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// GetProgress returns the probed and total file counts for progress bars.
package export
