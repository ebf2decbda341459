/*
SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and byoi contributors
SPDX-License-Identifier: Apache-2.0
*/

package fileutils

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	FileTypeRegular uint = 1 << iota
	FileTypeDir
	FileTypeSymlink
	FileTypeIrregular
	FileTypeAny = FileTypeRegular | FileTypeDir | FileTypeSymlink | FileTypeIrregular
)

func fileTypeFromMode(mode fs.FileMode) uint {
	switch {
	case mode.IsRegular():
		return FileTypeRegular
	case mode.IsDir():
		return FileTypeDir
	case mode&fs.ModeSymlink != 0:
		return FileTypeSymlink
	default:
		return FileTypeIrregular
	}
}

// Search fsys for all files under dir matching namePattern and fileType.
// Entries are returned in lexical order (directory by directory, depth first); paths are joined with dir and cleaned.
// Parameters namePattern and fileType may be optionally set to filter the result; namePattern must be a valid file pattern, not
// containing any slashes (otherwise a panic will be raised); the pattern will be matched using path.Match(); an empty namePattern
// will match anything. Passing zero as fileType is the same as passing FileTypeAny.
// The parameter maxDepth can be any integer between 0 and 10000 (where 0 is interpreted as 10000); a maxDepth of 1 means
// that only the direct entries of dir are considered.
// A non-existing dir yields an empty result; use Exists() if that must be distinguished.
func Find(fsys afero.Fs, dir string, namePattern string, fileType uint, maxDepth uint) ([]string, error) {
	if namePattern == "" {
		namePattern = "*"
	} else if strings.Contains(namePattern, "/") {
		panic("invalid name pattern; must not contain slashes")
	}
	if fileType == 0 {
		fileType = FileTypeAny
	} else if fileType&FileTypeAny != fileType {
		panic("invalid file type")
	}
	if maxDepth == 0 {
		maxDepth = 10000
	} else if maxDepth > 10000 {
		// for security; never descend infinitely
		return nil, fmt.Errorf("invalid maximum depth; must not exceed 10000")
	}

	var result []string

	// afero.ReadDir returns the entries sorted by name
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		} else {
			return nil, err
		}
	}
	for _, entry := range entries {
		entryName := entry.Name()
		entryPath := filepath.Join(dir, entryName)
		match, err := path.Match(namePattern, entryName)
		if err != nil {
			return nil, err
		}
		if match && (fileTypeFromMode(entry.Mode())&fileType != 0) {
			result = append(result, entryPath)
		}
		if entry.IsDir() && maxDepth > 1 {
			entryResult, err := Find(fsys, entryPath, namePattern, fileType, maxDepth-1)
			if err != nil {
				return nil, err
			}
			result = append(result, entryResult...)
		}
	}

	return result, nil
}

// Check whether path exists and is of one of the given file types (zero meaning any type).
func Exists(fsys afero.Fs, path string, fileType uint) (bool, error) {
	if fileType == 0 {
		fileType = FileTypeAny
	}
	info, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return fileTypeFromMode(info.Mode())&fileType != 0, nil
}
