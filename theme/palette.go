package theme

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

type RGB [3]uint8

// Palette is an ordered colour ramp, sampled by position in [0,1].
type Palette struct {
	Name   string
	Colors []RGB
}

var ErrNotGPL = errors.New("not a GIMP palette")

// LoadGPL reads a GIMP .gpl palette file.
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load palette: %w", err)
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, fmt.Errorf("load palette %s: %w", path, err)
	}
	return p, nil
}

// ParseGPL parses GPL text: a "GIMP Palette" magic line, optional
// Name/Columns headers and # comments, then one "R G B [name]" per line.
func ParseGPL(r io.Reader) (*Palette, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "GIMP Palette" {
		return nil, ErrNotGPL
	}

	p := &Palette{}
	for n := 2; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "", line[0] == '#', strings.HasPrefix(line, "Columns:"):
			continue
		case strings.HasPrefix(line, "Name:"):
			p.Name = strings.TrimSpace(line[len("Name:"):])
			continue
		}
		c, err := parseRGB(strings.Fields(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		p.Colors = append(p.Colors, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(p.Colors) == 0 {
		return nil, errors.New("palette has no colours")
	}
	return p, nil
}

func parseRGB(fields []string) (RGB, error) {
	var c RGB
	if len(fields) < 3 {
		return c, fmt.Errorf("want R G B, got %q", strings.Join(fields, " "))
	}
	for i := range c {
		v, err := strconv.Atoi(fields[i])
		if err != nil || v < 0 || v > 255 {
			return c, fmt.Errorf("bad component %q", fields[i])
		}
		c[i] = uint8(v)
	}
	return c, nil
}

// DefaultPalette is the built-in plasma gradient, dark purple to yellow.
func DefaultPalette() *Palette {
	return &Palette{
		Name: "Plasma",
		Colors: []RGB{
			{13, 8, 135},
			{75, 3, 161},
			{125, 3, 168},
			{168, 34, 150},
			{203, 70, 121},
			{229, 107, 93},
			{248, 148, 65},
			{253, 195, 40},
			{240, 249, 33},
		},
	}
}

// Load reads a GPL palette, falling back to the built-in one when path
// is empty.
func Load(path string) (*Palette, error) {
	if path == "" {
		return DefaultPalette(), nil
	}
	return LoadGPL(path)
}

// Lookup samples the ramp at norm, clamped to [0,1], blending the two
// nearest colours.
func (p *Palette) Lookup(norm float64) RGB {
	last := len(p.Colors) - 1
	pos := math.Max(0, math.Min(1, norm)) * float64(last)
	i := min(int(pos), last-1)
	if i < 0 {
		return p.Colors[0]
	}
	t := pos - float64(i)
	a, b := p.Colors[i], p.Colors[i+1]
	var c RGB
	for k := range c {
		c[k] = uint8(math.Round(float64(a[k]) + (float64(b[k])-float64(a[k]))*t))
	}
	return c
}

// Ramp returns n colours evenly spaced between from and to.
func (p *Palette) Ramp(from, to float64, n int) []RGB {
	out := make([]RGB, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = p.Lookup(from*(1-t) + to*t)
	}
	return out
}
