// SPDX-License-Identifier: MIT

// Package fsutil confines document locations to a storage root.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrOutsideRoot is returned when a location resolves outside the root.
	ErrOutsideRoot = errors.New("location escapes storage root")
	// ErrNotRegular is returned by IsRegularFile for directories, devices
	// and other non-regular files.
	ErrNotRegular = errors.New("not a regular file")
)

// Confine resolves location against root and ensures the result is
// physically underneath root, following symlinks. Relative locations are
// joined to root; absolute ones must already lie inside it.
func Confine(root, location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("empty location")
	}
	if strings.Contains(location, "\\") {
		return "", fmt.Errorf("location contains backslash: %s", location)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid root path: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return "", err
		}
		realRoot = absRoot
	}

	var full string
	if filepath.IsAbs(location) {
		full = filepath.Clean(location)
	} else {
		clean := filepath.Clean(location)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, location)
		}
		full = filepath.Join(realRoot, clean)
	}
	return resolveWithin(realRoot, full)
}

// resolveWithin resolves symlinks of full (or of its parent when full does not
// exist yet) and checks the result against realRoot.
func resolveWithin(realRoot, full string) (string, error) {
	var real string
	if _, err := os.Lstat(full); err == nil {
		rp, err := filepath.EvalSymlinks(full)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path: %w", err)
		}
		real = rp
	} else {
		dir := filepath.Dir(full)
		if rp, err := filepath.EvalSymlinks(dir); err == nil {
			real = filepath.Join(rp, filepath.Base(full))
		} else {
			if _, statErr := os.Stat(dir); statErr == nil {
				return "", fmt.Errorf("failed to resolve parent path: %v", err)
			}
			real = full
		}
	}

	rel, err := filepath.Rel(realRoot, real)
	if err != nil {
		return "", fmt.Errorf("rel computation failed: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, real)
	}
	return real, nil
}

// IsRegularFile checks that path exists and is a regular file, following
// symlinks. A missing path yields an error matching fs.ErrNotExist.
func IsRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s (%s)", ErrNotRegular, path, info.Mode().Type())
	}
	return nil
}
