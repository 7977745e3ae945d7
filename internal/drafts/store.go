// Package drafts saves editor text between visits. Drafts live in a single
// directory opened through os.Root, and are age-encrypted when keys are
// configured.
package drafts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"
)

const (
	plainExt  = ".txt"
	sealedExt = ".age"
)

var (
	// ErrNotFound is returned when a draft does not exist.
	ErrNotFound = errors.New("draft not found")
	// ErrInvalidName is returned for names that cannot be used as a draft name.
	ErrInvalidName = errors.New("invalid draft name")
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _-]{0,63}$`)

// Draft describes a stored draft.
type Draft struct {
	Name      string
	Encrypted bool
	Size      int64
	ModTime   time.Time
}

// Store reads and writes drafts under a directory.
type Store struct {
	path   string
	sealer *Sealer
}

// NewStore creates the directory if needed and returns a Store for it.
// A nil sealer stores drafts unencrypted.
func NewStore(path string, sealer *Sealer) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create drafts directory %s: %w", path, err)
	}

	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open drafts directory as root %s: %w", path, err)
	}
	_ = root.Close()

	if sealer == nil {
		sealer = NewSealer()
	}

	return &Store{path: path, sealer: sealer}, nil
}

// NormalizeName trims name and checks that it is a valid draft name.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !nameRe.MatchString(name) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return name, nil
}

// withRoot runs fn with the drafts directory opened as an os.Root.
func (st *Store) withRoot(fn func(*os.Root) error) error {
	root, err := os.OpenRoot(st.path)
	if err != nil {
		return fmt.Errorf("failed to open root: %w", err)
	}
	defer func(root *os.Root) {
		_ = root.Close()
	}(root)

	return fn(root)
}

// Save writes text under name, replacing any previous draft with that name.
func (st *Store) Save(name, text string) (Draft, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return Draft{}, err
	}

	content := []byte(text)
	ext, stale := plainExt, sealedExt
	if st.sealer.CanSeal() {
		content, err = st.sealer.Seal(text)
		if err != nil {
			return Draft{}, fmt.Errorf("failed to encrypt draft %s: %w", name, err)
		}
		ext, stale = sealedExt, plainExt
	}

	err = st.withRoot(func(root *os.Root) error {
		if err := root.WriteFile(name+ext, content, 0600); err != nil {
			return err
		}
		if err := root.Remove(name + stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
	if err != nil {
		return Draft{}, fmt.Errorf("failed to save draft %s: %w", name, err)
	}

	return Draft{
		Name:      name,
		Encrypted: ext == sealedExt,
		Size:      int64(len(content)),
		ModTime:   time.Now(),
	}, nil
}

// Load returns the text of the draft called name.
func (st *Store) Load(name string) (string, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return "", err
	}

	var content []byte
	err = st.withRoot(func(root *os.Root) error {
		for _, ext := range []string{sealedExt, plainExt} {
			data, err := root.ReadFile(name + ext)
			if err == nil {
				content = data
				return nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return "", fmt.Errorf("failed to load draft %s: %w", name, err)
	}

	if IsSealed(content) {
		text, err := st.sealer.Open(content)
		if err != nil {
			return "", fmt.Errorf("failed to decrypt draft %s: %w", name, err)
		}
		return text, nil
	}

	return string(content), nil
}

// Delete removes the draft called name.
func (st *Store) Delete(name string) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}

	err = st.withRoot(func(root *os.Root) error {
		removed := false
		for _, ext := range []string{sealedExt, plainExt} {
			err := root.Remove(name + ext)
			if err == nil {
				removed = true
				continue
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		if !removed {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", name, err)
	}

	return nil
}

// List returns all drafts, most recently modified first.
func (st *Store) List() ([]Draft, error) {
	var drafts []Draft
	err := st.withRoot(func(root *os.Root) error {
		return fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != "." {
					return fs.SkipDir
				}
				return nil
			}

			var encrypted bool
			switch {
			case strings.HasSuffix(path, sealedExt):
				encrypted = true
			case strings.HasSuffix(path, plainExt):
			default:
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return err
			}

			drafts = append(drafts, Draft{
				Name:      strings.TrimSuffix(strings.TrimSuffix(path, sealedExt), plainExt),
				Encrypted: encrypted,
				Size:      info.Size(),
				ModTime:   info.ModTime(),
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	slices.SortFunc(drafts, func(a, b Draft) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	return drafts, nil
}
