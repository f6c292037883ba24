package stores

import (
	"io"
	"os"
	"path/filepath"
)

// DiskStore keeps media as plain files under a root directory.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) *DiskStore {
	if root == "" {
		root = "./uploads"
	}
	return &DiskStore{Root: root}
}

func (d *DiskStore) path(key string) string {
	return filepath.Join(d.Root, filepath.Clean("/"+key))
}

func (d *DiskStore) Read(key string) (io.ReadCloser, int64, error) {
	f, err := os.Open(d.path(key))
	if err != nil {
		return nil, 0, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, st.Size(), nil
}

func (d *DiskStore) Write(key string, r io.Reader) error {
	p := d.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func (d *DiskStore) Delete(key string) error {
	err := os.Remove(d.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
