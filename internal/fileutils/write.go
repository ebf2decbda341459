/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package fileutils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Atomically replace the content of path with data.
// The data is written to a temporary file next to path which is then renamed; if anything goes wrong,
// the previous content of path (if any) is left untouched.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte, perm os.FileMode) error {
	return writeAtomic(fsys, path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Atomically copy src to dst (see WriteFileAtomic()).
func CopyFileAtomic(fsys afero.Fs, src string, dst string) (int64, error) {
	in, err := fsys.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return 0, err
	}
	var n int64
	err = writeAtomic(fsys, dst, info.Mode().Perm(), func(w io.Writer) (err error) {
		n, err = io.Copy(w, in)
		return
	})
	return n, err
}

func writeAtomic(fsys afero.Fs, path string, perm os.FileMode, write func(w io.Writer) error) (err error) {
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	tmp, err := afero.TempFile(fsys, filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if removeErr := fsys.Remove(tmp.Name()); removeErr != nil {
				err = utilerrors.NewAggregate([]error{err, removeErr})
			}
		}
	}()
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fsys.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return fsys.Rename(tmp.Name(), path)
}
