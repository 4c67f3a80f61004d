package draft

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
)

// Load reads the project documents in dir. A folder with metadata but
// no content document is fatal: there is no editing state to mutate.
// Unresolved material references make the project unloadable because
// the cut applier cannot reason about them; every other structural
// finding is logged and tolerated, since CapCut itself produces drafts
// this engine would not.
func (s *implStore) Load(ctx context.Context, dir string) (*timeline.Project, error) {
	data, err := os.ReadFile(filepath.Join(dir, ContentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errdefs.Format("%s not found in %s", ContentFile, dir)
		}
		return nil, errdefs.Wrap(errdefs.KindIO, err, "read draft content in %s", dir)
	}
	content, err := timeline.ParseContent(data)
	if err != nil {
		return nil, err
	}

	project := &timeline.Project{Content: content}

	metaData, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err == nil {
		meta, err := timeline.ParseMeta(metaData)
		if err != nil {
			return nil, err
		}
		project.Meta = meta
	} else if !os.IsNotExist(err) {
		return nil, errdefs.Wrap(errdefs.KindIO, err, "read draft metadata in %s", dir)
	}

	var unresolved []string
	for _, v := range content.Validate() {
		if v.Kind == timeline.ViolationUnresolvedReference {
			unresolved = append(unresolved, v.Message)
			continue
		}
		s.logger.Warn(ctx, "Draft %s: %s", dir, v)
	}
	if len(unresolved) > 0 {
		return nil, errdefs.Format("draft %s is inconsistent: %s", dir, strings.Join(unresolved, "; "))
	}

	return project, nil
}
