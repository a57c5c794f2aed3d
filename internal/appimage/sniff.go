package appimage

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const elfMIME = "application/x-elf"

// IsELF reports whether path looks like an ELF executable. Bundles are ELF
// runtimes with an appended filesystem image.
func IsELF(path string) (bool, string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false, "", err
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is(elfMIME) {
			return true, mtype.String(), nil
		}
	}
	return false, mtype.String(), nil
}

// IsImage reports whether path holds an image a launcher can display.
func IsImage(path string) (bool, string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false, "", err
	}
	return strings.HasPrefix(mtype.String(), "image/"), mtype.String(), nil
}
