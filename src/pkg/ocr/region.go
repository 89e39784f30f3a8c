package ocr

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"card-ocr/src/pkg/util"
)

var (
	// ErrNoForeground means no pixel reached the white level, so there is no card to find.
	ErrNoForeground = errors.New("no pixel at or above the white level")
	// ErrEmptyRegion means the card box is too small to survive the margins.
	ErrEmptyRegion = errors.New("text region is empty after margins")
)

// Region is a crop window in pixel coordinates relative to the top-left
// corner of the image. Max edges are exclusive.
type Region struct {
	XMin int `json:"xmin"`
	YMin int `json:"ymin"`
	XMax int `json:"xmax"`
	YMax int `json:"ymax"`
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.XMin >= r.XMax || r.YMin >= r.YMax
}

// Rect returns the region as an image.Rectangle. Only meaningful when !Empty().
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.XMin, r.YMin, r.XMax, r.YMax)
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.XMin, r.YMin, r.XMax, r.YMax)
}

// LocateOptions controls how Locate finds and trims the card.
type LocateOptions struct {
	WhiteLevel   uint8
	TopMargin    int
	BottomMargin int
}

/*
Locate finds the text-bearing area of a card photo.

The image is thresholded at opts.WhiteLevel and the largest connected area
of near-white pixels is taken to be the card. Its bounding box is shrunk by
opts.TopMargin and opts.BottomMargin to drop the card's header and footer,
then clamped to the image.

Only outer areas compete. The dark print punches holes into the card, and
an area's size includes its holes and anything white nested inside them.

Errors wrap ErrNoForeground or ErrEmptyRegion.
*/
func Locate(img image.Image, opts LocateOptions) (region Region, err error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return region, ErrNoForeground
	}

	card, found := largestComponent(whiteMask(img, opts.WhiteLevel), width, height)
	if !found {
		return region, ErrNoForeground
	}

	x, y := card.minX, card.minY
	w, h := card.maxX-card.minX+1, card.maxY-card.minY+1

	region = Region{
		XMin: util.Clamp(x, 0, width),
		XMax: util.Clamp(x+w, 0, width),
		YMin: util.Clamp(y+opts.TopMargin, 0, height),
		YMax: util.Clamp(y+h-opts.BottomMargin, 0, height),
	}
	if region.Empty() {
		return region, fmt.Errorf("%w: card box %dx%d at (%d,%d) gives %s", ErrEmptyRegion, w, h, x, y, region)
	}

	return region, nil
}

/*
whiteMask marks the pixels whose intensity is at least level.

Intensity is the rounded BT.601 luma of the straight (unpremultiplied)
color channels. Alpha is ignored, so a transparent black pixel is black.
*/
func whiteMask(img image.Image, level uint8) []bool {
	gray := imaging.Grayscale(img)
	width, height := gray.Rect.Dx(), gray.Rect.Dy()

	mask := make([]bool, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+width*4]
		for x := 0; x < width; x++ {
			mask[y*width+x] = row[x*4] >= level
		}
	}
	return mask
}

// component is one 8-connected area of foreground pixels.
type component struct {
	minX, minY int
	maxX, maxY int
	pixels     int
	holes      int
	// enclosing foreground component id, 0 for top level
	parent int32
}

/*
largestComponent labels foreground (8-connected) and background (4-connected)
components and returns the top-level foreground component with the biggest
filled area. Filled area is the component's own pixels plus every hole and
nested component inside it; nested components are never returned.

A background component that does not touch the image border is a hole. The
pixel right above the first scanned pixel of a hole belongs to the component
enclosing it, and the pixel right above the first scanned pixel of a nested
foreground component belongs to the hole it sits in.
*/
func largestComponent(mask []bool, width, height int) (best component, found bool) {
	// >0: foreground component id, <0: background component id, 0: unvisited
	labels := make([]int32, width*height)
	components := make([]component, 0)
	// enclosing foreground id per background component, 0 when it touches the border
	holeOf := make([]int32, 0)
	stack := make([]int, 0, 1024)

	for start := range mask {
		if labels[start] != 0 {
			continue
		}

		if mask[start] {
			c := component{minX: width, minY: height, maxX: -1, maxY: -1}
			if start >= width {
				if above := labels[start-width]; above < 0 {
					c.parent = holeOf[-above-1]
				}
			}
			components = append(components, c)
			id := int32(len(components))
			stack = fillForeground(mask, labels, width, height, start, id, &components[id-1], stack)
			continue
		}

		id := -int32(len(holeOf) + 1)
		pixels, touchesBorder, stackOut := fillBackground(mask, labels, width, height, start, id, stack)
		stack = stackOut
		if touchesBorder {
			holeOf = append(holeOf, 0)
			continue
		}
		enclosing := labels[start-width]
		holeOf = append(holeOf, enclosing)
		components[enclosing-1].holes += pixels
	}

	// parents always have smaller ids, so one forward pass resolves roots
	roots := make([]int32, len(components)+1)
	filled := make([]int, len(components)+1)
	for i, c := range components {
		id := int32(i + 1)
		roots[id] = id
		if c.parent != 0 {
			roots[id] = roots[c.parent]
		}
		filled[roots[id]] += c.pixels + c.holes
	}

	bestFilled := 0
	for i, c := range components {
		id := i + 1
		if c.parent != 0 {
			continue
		}
		if !found || filled[id] > bestFilled {
			best, bestFilled, found = c, filled[id], true
		}
	}
	return best, found
}

// fillForeground flood-fills an 8-connected foreground component iteratively.
func fillForeground(mask []bool, labels []int32, width, height, start int, id int32, c *component, stack []int) []int {
	stack = append(stack[:0], start)
	labels[start] = id

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p%width, p/width

		c.pixels++
		c.minX, c.maxX = min(c.minX, x), max(c.maxX, x)
		c.minY, c.maxY = min(c.minY, y), max(c.maxY, y)

		for dy := -1; dy <= 1; dy++ {
			ny := y + dy
			if ny < 0 || ny >= height {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				nx := x + dx
				if (dx == 0 && dy == 0) || nx < 0 || nx >= width {
					continue
				}
				q := ny*width + nx
				if mask[q] && labels[q] == 0 {
					labels[q] = id
					stack = append(stack, q)
				}
			}
		}
	}
	return stack
}

// fillBackground flood-fills a 4-connected background component iteratively.
func fillBackground(mask []bool, labels []int32, width, height, start int, id int32, stack []int) (pixels int, touchesBorder bool, _ []int) {
	stack = append(stack[:0], start)
	labels[start] = id

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p%width, p/width
		pixels++

		if x == 0 || y == 0 || x == width-1 || y == height-1 {
			touchesBorder = true
		}

		neighbours := [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
		for _, n := range neighbours {
			nx, ny := n[0], n[1]
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			q := ny*width + nx
			if !mask[q] && labels[q] == 0 {
				labels[q] = id
				stack = append(stack, q)
			}
		}
	}
	return pixels, touchesBorder, stack
}
