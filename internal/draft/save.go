package draft

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/timeline"
)

const stagingPrefix = ".smartcut-stage-"

// Save writes the project back into dir, stamping the modification time
// the way CapCut does on every save. Each document goes through a temp
// file and rename, so a crash mid-save leaves the previous version
// intact rather than a truncated one.
func (s *implStore) Save(ctx context.Context, dir string, project *timeline.Project) error {
	project.Touch(time.Now())

	if err := s.writeDraft(dir, project, false); err != nil {
		return err
	}

	s.invalidate()
	s.logger.Info(ctx, "Saved draft: %s", dir)
	return nil
}

// SaveNew writes a freshly built project into its own folder under the
// drafts directory, which is created on first use. The folder appears
// atomically: documents are written into a hidden staging directory
// that is renamed into place once complete.
func (s *implStore) SaveNew(ctx context.Context, project *timeline.Project) (string, error) {
	if project.Meta == nil {
		return "", fmt.Errorf("project has no metadata document")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errdefs.Wrap(errdefs.KindIO, err, "create drafts directory %s", s.dir)
	}

	final := uniquePath(s.dir, sanitizeName(project.Content.Name))
	staging, err := os.MkdirTemp(s.dir, stagingPrefix)
	if err != nil {
		return "", errdefs.Wrap(errdefs.KindIO, err, "stage draft %q", project.Content.Name)
	}
	os.Chmod(staging, 0o755)

	project.Meta.DraftRootPath = final
	project.Touch(time.Now())

	if err := s.writeDraft(staging, project, true); err != nil {
		os.RemoveAll(staging)
		return "", err
	}
	if err := os.Rename(staging, final); err != nil {
		os.RemoveAll(staging)
		return "", errdefs.Wrap(errdefs.KindIO, err, "move draft into place at %s", final)
	}

	s.invalidate()
	s.logger.Info(ctx, "Created draft project: %s", final)
	return final, nil
}

// SaveCopy duplicates the whole project folder in srcDir, ancillary
// files included, under a new name and draft id. The copy is assembled
// in a hidden staging directory and renamed into place; the source tree
// is only ever read.
func (s *implStore) SaveCopy(ctx context.Context, srcDir, newName string) (string, *timeline.Project, error) {
	if _, err := os.Stat(filepath.Join(srcDir, ContentFile)); err != nil {
		if os.IsNotExist(err) {
			return "", nil, errdefs.Format("%s not found in %s", ContentFile, srcDir)
		}
		return "", nil, errdefs.Wrap(errdefs.KindIO, err, "stat draft content in %s", srcDir)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", nil, errdefs.Wrap(errdefs.KindIO, err, "create drafts directory %s", s.dir)
	}

	staging, err := os.MkdirTemp(s.dir, stagingPrefix)
	if err != nil {
		return "", nil, errdefs.Wrap(errdefs.KindIO, err, "stage draft copy of %s", srcDir)
	}
	os.Chmod(staging, 0o755)

	if err := copyTree(srcDir, staging); err != nil {
		os.RemoveAll(staging)
		return "", nil, errdefs.Wrap(errdefs.KindIO, err, "copy draft %s", srcDir)
	}

	project, err := s.Load(ctx, staging)
	if err != nil {
		os.RemoveAll(staging)
		return "", nil, err
	}

	now := time.Now()
	final := uniquePath(s.dir, sanitizeName(newName))
	id := timeline.NewToken()

	project.Content.ID = id
	project.Content.Name = newName
	if project.Meta == nil {
		project.Meta = &timeline.Meta{CreateTime: now.Unix()}
	}
	project.Meta.DraftID = id
	project.Meta.DraftName = newName
	project.Meta.DraftRootPath = final
	project.Meta.Duration = project.Content.Duration
	project.Touch(now)

	if err := s.writeDraft(staging, project, false); err != nil {
		os.RemoveAll(staging)
		return "", nil, err
	}
	if err := os.Rename(staging, final); err != nil {
		os.RemoveAll(staging)
		return "", nil, errdefs.Wrap(errdefs.KindIO, err, "move draft copy into place at %s", final)
	}

	s.invalidate()
	s.logger.Info(ctx, "Copied draft %s to %s", srcDir, final)
	return final, project, nil
}

// writeDraft serializes both documents into dir. The legacy content
// name is written when forced or when the folder already carries it, so
// the two copies never drift apart.
func (s *implStore) writeDraft(dir string, project *timeline.Project, forceLegacy bool) error {
	content, err := project.Content.Serialize()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(dir, ContentFile), content); err != nil {
		return errdefs.Wrap(errdefs.KindIO, err, "write %s", ContentFile)
	}

	legacy := filepath.Join(dir, LegacyContentFile)
	if !forceLegacy {
		_, err := os.Stat(legacy)
		forceLegacy = err == nil
	}
	if forceLegacy {
		if err := writeFileAtomic(legacy, content); err != nil {
			return errdefs.Wrap(errdefs.KindIO, err, "write %s", LegacyContentFile)
		}
	}

	if project.Meta != nil {
		meta, err := project.Meta.Serialize()
		if err != nil {
			return err
		}
		if err := writeFileAtomic(filepath.Join(dir, MetaFile), meta); err != nil {
			return errdefs.Wrap(errdefs.KindIO, err, "write %s", MetaFile)
		}
	}
	return nil
}

// writeFileAtomic writes data through a hidden temp file in the same
// directory and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return err
	}

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil {
		os.Remove(tmp.Name())
		return werr
	}
	if cerr != nil {
		os.Remove(tmp.Name())
		return cerr
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// sanitizeName maps a project name to a folder name every platform
// accepts: control characters dropped, reserved punctuation replaced,
// leading and trailing dots and spaces trimmed.
func sanitizeName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20:
			return -1
		case strings.ContainsRune(`<>:"/\|?*`, r):
			return '_'
		}
		return r
	}, name)

	mapped = strings.Trim(mapped, " .")
	if mapped == "" {
		return "Untitled"
	}
	return mapped
}

// uniquePath joins base onto root, appending " 2", " 3", ... until the
// path is free.
func uniquePath(root, base string) string {
	path := filepath.Join(root, base)
	for n := 2; ; n++ {
		if _, err := os.Lstat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(root, fmt.Sprintf("%s %d", base, n))
	}
}

func copyTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
