package usecases

import (
	"context"
)

// Annotator draws the step just entered onto the whiteboard.
// path already ends with nodeID when Annotate is called.
type Annotator interface {
	Annotate(ctx context.Context, path []string, nodeID string) error
}

// Clearer removes everything from the whiteboard
type Clearer interface {
	Clear(ctx context.Context) error
}

// Camera fits the visible viewport around the whiteboard contents
type Camera interface {
	FitView(ctx context.Context) error
}

// Exporter renders the current whiteboard as an encoded image
type Exporter interface {
	ExportImage(ctx context.Context) ([]byte, error)
}

// Downloader hands exported bytes to the user under a file name
type Downloader interface {
	Download(ctx context.Context, name string, data []byte) error
}

// Canvas is the full whiteboard capability set. Hosts usually implement it
// with a single type and pass it to WithCanvas.
type Canvas interface {
	Annotator
	Clearer
	Camera
	Exporter
}

// Collaborators groups the side-effecting capabilities the controller calls.
// Any field may be nil; the matching side effect is then skipped.
type Collaborators struct {
	Annotator  Annotator
	Clearer    Clearer
	Camera     Camera
	Exporter   Exporter
	Downloader Downloader
}
