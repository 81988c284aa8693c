// Package winpath splits project and source paths into their directory and
// file name parts. Build events come from Windows hosts as often as not, so
// both separators are honoured regardless of the OS ccnetlog runs on.
package winpath

import "strings"

const separators = `\/`

// Split returns the directory and file name portions of p. The directory
// is empty when p has no separator. A root directory keeps its separator
// (`C:\a.cs` gives `C:\`, `/a.cs` gives `/`).
func Split(p string) (dir, name string) {
	i := strings.LastIndexAny(p, separators)
	if i < 0 {
		if isVolume(p) {
			return p[:2], p[2:]
		}
		return "", p
	}

	name = p[i+1:]
	dir = strings.TrimRight(p[:i], separators)
	switch {
	case dir == "":
		dir = p[:1]
	case isVolume(dir) && len(dir) == 2:
		dir = p[:3]
	}
	return dir, name
}

func isVolume(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
