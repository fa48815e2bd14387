package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Deliverer hands a finished export to the user: an HTTP download, a file on
// disk, and so on. It is only called after a successful render.
type Deliverer interface {
	Deliver(ctx context.Context, file *ExportFile) error
}

// DiskDeliverer writes exports into Dir, creating it when needed.
type DiskDeliverer struct {
	Dir string

	// Path is set to the written file after a successful Deliver.
	Path string
}

// Deliver writes the file under its export name.
func (d *DiskDeliverer) Deliver(_ context.Context, file *ExportFile) error {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", file.Name, err)
	}
	d.Path = path
	return nil
}
