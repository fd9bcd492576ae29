//go:build windows

package store

import "golang.org/x/sys/windows"

const protectedAttributes = windows.FILE_ATTRIBUTE_HIDDEN |
	windows.FILE_ATTRIBUTE_SYSTEM |
	windows.FILE_ATTRIBUTE_READONLY

func setAttributes(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}

	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return err
	}

	return windows.SetFileAttributes(p, attrs|protectedAttributes)
}

func clearAttributes(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}

	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return err
	}

	return windows.SetFileAttributes(p, attrs&^uint32(protectedAttributes))
}
