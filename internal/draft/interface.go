// Package draft finds, loads and writes CapCut draft projects on disk.
//
// CapCut owns the drafts directory and may touch it at any time, so
// every write here is staged next to its destination and moved into
// place with a single rename. Staging artifacts are dot-prefixed and
// invisible to listings; the canonical path never holds a half-written
// project.
package draft

import (
	"context"

	"github.com/nguyentantai21042004/smartcut/internal/timeline"
)

// Draft document file names. Current CapCut builds read ContentFile;
// LegacyContentFile is the older name some builds still look for and is
// kept in sync whenever it exists.
const (
	ContentFile       = "draft_info.json"
	LegacyContentFile = "draft_content.json"
	MetaFile          = "draft_meta_info.json"
)

// Info is one row of the project listing, taken from the metadata
// document without loading the full editing state.
type Info struct {
	Name              string `json:"name"`
	Path              string `json:"path"`
	ID                string `json:"project_id"`
	DurationUS        int64  `json:"duration_us"`
	DurationFormatted string `json:"duration_formatted"`
	ModifiedTime      int64  `json:"modified_time"`
	VideoCount        int    `json:"video_count"`
	HasContent        bool   `json:"has_content"`
}

// Store reads and writes draft projects under one drafts directory.
// Find methods return (nil, nil) when nothing matches; absence is an
// answer, not an error.
type Store interface {
	// DraftsDir returns the resolved drafts directory. It may not exist
	// yet; SaveNew creates it on first use.
	DraftsDir() string

	// List returns all readable projects, newest modification first.
	// Corrupt folders are skipped. A missing drafts directory yields an
	// empty listing.
	List(ctx context.Context) ([]Info, error)

	// FindByName matches the display name, exactly or as a
	// case-insensitive substring. The most recently modified match wins.
	FindByName(ctx context.Context, name string, exact bool) (*Info, error)

	// FindByID matches the draft id from the metadata document, falling
	// back to the folder name.
	FindByID(ctx context.Context, id string) (*Info, error)

	// Load reads the project in dir. The content document is required;
	// metadata is optional. Segments referencing unknown materials make
	// the project unloadable; lesser structural findings are logged and
	// tolerated.
	Load(ctx context.Context, dir string) (*timeline.Project, error)

	// Save writes the project's documents back into dir, stamping the
	// modification time on both.
	Save(ctx context.Context, dir string, project *timeline.Project) error

	// SaveNew writes a freshly built project into the drafts directory
	// and returns its folder. The folder is named after the project,
	// sanitized, with a numeric suffix on collision.
	SaveNew(ctx context.Context, project *timeline.Project) (string, error)

	// SaveCopy duplicates the project in srcDir under a new name and
	// identity, ancillary files included, and returns the new folder
	// along with the loaded copy. The original is never touched.
	SaveCopy(ctx context.Context, srcDir, newName string) (string, *timeline.Project, error)

	// Close stops the directory watcher, if one is running.
	Close() error
}
