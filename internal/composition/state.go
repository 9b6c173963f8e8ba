package composition

import "sort"

// ElementKind tells the rasterizer how to draw an element.
type ElementKind string

const (
	KindBackground  ElementKind = "background"
	KindText        ElementKind = "text"
	KindCaptionLine ElementKind = "captionLine"
	KindCaptionWord ElementKind = "captionWord"
	KindProgressBar ElementKind = "progressBar"
	KindButton      ElementKind = "button"
	KindArrow       ElementKind = "arrow"
	KindQRCode      ElementKind = "qrCode"
)

// Element is one renderable node of a frame.
//
// Root elements are placed with TranslateX/TranslateY as their centre in
// composition pixels. Children are flowed left to right by the rasterizer and
// their translate values are offsets from the flowed position. Size is the
// nominal size in pixels: font size for text, edge length for arrows and QR
// codes, bar height for progress bars.
type Element struct {
	ID         string      `yaml:"id" json:"id"`
	Kind       ElementKind `yaml:"kind" json:"kind"`
	Scene      string      `yaml:"scene" json:"scene"`
	Text       string      `yaml:"text,omitempty" json:"text,omitempty"`
	Opacity    float64     `yaml:"opacity" json:"opacity"`
	Scale      float64     `yaml:"scale" json:"scale"`
	TranslateX float64     `yaml:"translateX" json:"translateX"`
	TranslateY float64     `yaml:"translateY" json:"translateY"`
	Size       float64     `yaml:"size" json:"size"`
	Color      string      `yaml:"color" json:"color"`
	ZOrder     int         `yaml:"zOrder" json:"zOrder"`
	Children   []Element   `yaml:"children,omitempty" json:"children,omitempty"`
}

// FrameState is the fully resolved visual state of one frame.
type FrameState struct {
	Frame           int       `yaml:"frame" json:"frame"`
	Time            float64   `yaml:"time" json:"time"`
	Width           int       `yaml:"width" json:"width"`
	Height          int       `yaml:"height" json:"height"`
	Scenes          []string  `yaml:"scenes" json:"scenes"`
	ActiveWordIndex int       `yaml:"activeWordIndex" json:"activeWordIndex"`
	Elements        []Element `yaml:"elements" json:"elements"`
}

// Find returns the first root element with the given ID.
func (f FrameState) Find(id string) (Element, bool) {
	for _, e := range f.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// HasScene reports whether the named scene contributed to the frame.
func (f FrameState) HasScene(name string) bool {
	for _, s := range f.Scenes {
		if s == name {
			return true
		}
	}
	return false
}

// Z-order layers shared by all scenes.
const (
	zBackground = 0
	zShadow     = 10
	zContent    = 20
	zCaption    = 30
	zOverlay    = 40
)

// mergeByZ orders elements by z-order, keeping scene order for ties.
func mergeByZ(elements []Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].ZOrder < elements[j].ZOrder
	})
}
