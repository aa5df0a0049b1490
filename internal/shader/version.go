// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a GLSL language version.
type Version struct {
	// Number is the #version number, e.g. 300 or 310.
	Number int
	ES     bool
	// WebGL restricts ES 3.00 further: no binding qualifiers, no
	// multisampled textures.
	WebGL bool
}

// ES300 is the baseline target of the engine.
var ES300 = Version{Number: 300, ES: true}

func (v Version) String() string {
	if v.ES {
		return fmt.Sprintf("%d es", v.Number)
	}
	return strconv.Itoa(v.Number)
}

// SupportsBindingLayout reports whether layout(binding = N) is accepted on
// uniform blocks and samplers.
func (v Version) SupportsBindingLayout() bool {
	if v.WebGL {
		return false
	}
	if v.ES {
		return v.Number >= 310
	}
	return v.Number >= 420
}

// ParseVersion parses a SHADING_LANGUAGE_VERSION string such as
// "OpenGL ES GLSL ES 3.00", "WebGL GLSL ES 3.00 (OpenGL ES GLSL ES 3.0
// Chromium)" or "4.60 NVIDIA". The #version forms "300 es" and "330" are
// accepted too.
func ParseVersion(s string) (Version, error) {
	if f := strings.Fields(s); len(f) > 0 && len(f) <= 2 {
		if n, err := strconv.Atoi(f[0]); err == nil && n >= 100 {
			es := len(f) == 2 && f[1] == "es"
			if len(f) == 2 && !es {
				return Version{}, fmt.Errorf("shader: unrecognized shading language version %q", s)
			}
			return Version{Number: n, ES: es}, nil
		}
	}
	v := Version{WebGL: strings.HasPrefix(s, "WebGL")}
	rest := s
	if i := strings.Index(s, "GLSL ES "); i >= 0 {
		v.ES = true
		rest = s[i+len("GLSL ES "):]
	}
	num, ok := versionNumber(rest)
	if !ok {
		return Version{}, fmt.Errorf("shader: unrecognized shading language version %q", s)
	}
	v.Number = num
	return v, nil
}

// versionNumber reads a leading "M.mm" and returns M*100+mm.
func versionNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return r != '.' && (r < '0' || r > '9') })
	if end >= 0 {
		s = s[:end]
	}
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return 0, false
	}
	ma, err := strconv.Atoi(major)
	if err != nil {
		return 0, false
	}
	if len(minor) == 1 {
		minor += "0"
	}
	mi, err := strconv.Atoi(minor)
	if err != nil || mi > 99 {
		return 0, false
	}
	return ma*100 + mi, true
}
