package draft

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
)

// DetectDraftsDir returns the CapCut drafts directory for the current
// platform, preferring the first candidate that already exists on disk.
// When none exists it returns the primary candidate so a first save can
// create it. Empty only when the home directory is unknown.
func DetectDraftsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			filepath.Join(home, "Movies", "CapCut", "User Data", "Projects", "com.lveditor.draft"),
		}
	case "windows":
		candidates = []string{
			filepath.Join(home, "AppData", "Local", "CapCut", "User Data", "Projects", "com.lveditor.draft"),
		}
	default:
		candidates = []string{
			filepath.Join(home, ".capcut", "drafts"),
			filepath.Join(home, ".local", "share", "CapCut", "drafts"),
			filepath.Join(home, "CapCut", "drafts"),
		}
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return candidates[0]
}

// Scan lists the projects under dir without a Store, newest
// modification first. Folders without a metadata document and folders
// whose metadata does not parse are skipped. A missing dir is an empty
// listing, not an error.
func Scan(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errdefs.Wrap(errdefs.KindIO, err, "read drafts directory %s", dir)
	}

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := readInfo(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		infos = append(infos, *info)
	}

	// ReadDir is name-ordered, so ties stay deterministic.
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].ModifiedTime > infos[j].ModifiedTime
	})
	return infos, nil
}

// readInfo builds the listing row for one project folder from its
// metadata document, peeking into the content document only for the
// material count.
func readInfo(dir string) (*Info, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return nil, err
	}
	meta, err := timeline.ParseMeta(data)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Name:              meta.DraftName,
		Path:              dir,
		ID:                meta.DraftID,
		DurationUS:        meta.Duration,
		DurationFormatted: timeline.FormatMicros(meta.Duration),
		ModifiedTime:      meta.ModifiedTime,
	}
	if info.ID == "" {
		info.ID = filepath.Base(dir)
	}
	if info.Name == "" {
		info.Name = "Untitled"
	}

	if content, err := readContentDocument(dir, &info.HasContent); err == nil && content.Materials != nil {
		info.VideoCount = len(content.Materials.Videos)
	}
	return info, nil
}

// readContentDocument parses whichever content document the folder
// carries. hasCurrent reports whether the current file name is present,
// which is what makes a project modifiable.
func readContentDocument(dir string, hasCurrent *bool) (*timeline.Content, error) {
	data, err := os.ReadFile(filepath.Join(dir, ContentFile))
	if err == nil {
		*hasCurrent = true
		return timeline.ParseContent(data)
	}
	data, err = os.ReadFile(filepath.Join(dir, LegacyContentFile))
	if err != nil {
		return nil, err
	}
	return timeline.ParseContent(data)
}

// List serves from the watcher-backed cache when it is valid and falls
// back to a directory scan otherwise.
func (s *implStore) List(ctx context.Context) ([]Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watching && s.fresh {
		out := make([]Info, len(s.cached))
		copy(out, s.cached)
		return out, nil
	}

	infos, err := Scan(s.dir)
	if err != nil {
		return nil, err
	}
	if s.watching {
		s.cached = infos
		s.fresh = true
		s.logger.Debug(ctx, "Cached %d draft projects", len(infos))
	}

	out := make([]Info, len(infos))
	copy(out, infos)
	return out, nil
}

func (s *implStore) FindByName(ctx context.Context, name string, exact bool) (*Info, error) {
	infos, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(name)
	for i := range infos {
		if exact {
			if infos[i].Name == name {
				return &infos[i], nil
			}
			continue
		}
		if strings.Contains(strings.ToLower(infos[i].Name), lower) {
			return &infos[i], nil
		}
	}
	return nil, nil
}

func (s *implStore) FindByID(ctx context.Context, id string) (*Info, error) {
	infos, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range infos {
		if infos[i].ID == id {
			return &infos[i], nil
		}
	}
	for i := range infos {
		if filepath.Base(infos[i].Path) == id {
			return &infos[i], nil
		}
	}
	return nil, nil
}
