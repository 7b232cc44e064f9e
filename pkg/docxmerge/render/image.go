package render

import (
	"bytes"
	"fmt"
	"image/png"
	"strconv"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/markup"
)

const (
	// emuPerPixel converts 72 dpi pixels to EMU.
	emuPerPixel = 914400 / 72
	// emuPadding matches the effect extent written around every picture.
	emuPadding = 2540
	// emuPerTwip converts page measurements to EMU.
	emuPerTwip = 635
	// docPrBase keeps generated drawing ids clear of those in the template.
	docPrBase = 10000
)

// ImageAsset is a picture to be added to the package.
type ImageAsset struct {
	RelID    string
	Filename string
	Data     []byte
	Width    int
	Height   int
}

// Media hands out relationship ids and file names for the images of one
// render and remembers them for the package writer.
type Media struct {
	nextRel int
	figure  int
	taken   func(name string) bool
	assets  []ImageAsset
}

// NewMedia starts allocating at rId<nextRel>. taken reports whether a media
// file name already exists in the package; it may be nil.
func NewMedia(nextRel int, taken func(name string) bool) *Media {
	if taken == nil {
		taken = func(string) bool { return false }
	}
	return &Media{nextRel: nextRel, taken: taken}
}

// Add records a PNG and returns its asset along with the drawing id to use.
func (m *Media) Add(data []byte, width, height int) (ImageAsset, int) {
	var name string
	for {
		m.figure++
		name = fmt.Sprintf("figure-%d.png", m.figure)
		if !m.taken(name) {
			break
		}
	}
	asset := ImageAsset{
		RelID:    "rId" + strconv.Itoa(m.nextRel),
		Filename: name,
		Data:     data,
		Width:    width,
		Height:   height,
	}
	m.nextRel++
	m.assets = append(m.assets, asset)
	return asset, docPrBase + len(m.assets)
}

// Assets returns the images recorded so far.
func (m *Media) Assets() []ImageAsset {
	return m.assets
}

// EMU converts a pixel length to drawing units.
func EMU(px int) int64 {
	return int64(px)*emuPerPixel + emuPadding
}

// MaxImageWidth is the printable width of a page in EMU.
func MaxImageWidth(g markup.PageGeometry) int64 {
	return int64(g.PrintableWidth()) * emuPerTwip
}

// ProbePNG returns the pixel dimensions of PNG data.
func ProbePNG(data []byte) (width, height int, err error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// ImageSize returns the drawing extent of an asset, scaled down
// proportionally when it is wider than maxWidth. maxWidth 0 disables scaling.
func ImageSize(asset ImageAsset, maxWidth int64) (cx, cy int64) {
	cx, cy = EMU(asset.Width), EMU(asset.Height)
	if maxWidth > 0 && cx > maxWidth {
		cy = cy * maxWidth / cx
		cx = maxWidth
	}
	return cx, cy
}

// ImageParagraph returns a paragraph holding the asset as an inline picture.
func ImageParagraph(asset ImageAsset, id int, maxWidth int64) []markup.Token {
	run := markup.Wrap(markup.W("r"), nil,
		markup.Wrap(markup.W("drawing"), nil, InlineImage(asset, id, maxWidth)...)...)
	return Paragraph("", run...)
}

// InlineImage returns the wp:inline element of a picture.
func InlineImage(asset ImageAsset, id int, maxWidth int64) []markup.Token {
	cx, cy := ImageSize(asset, maxWidth)
	w, h := strconv.FormatInt(cx, 10), strconv.FormatInt(cy, 10)

	wp := func(local string) markup.Name {
		return markup.Name{Prefix: "wp", Local: local, Space: markup.NamespaceWP}
	}
	a := func(local string) markup.Name {
		return markup.Name{Prefix: "a", Local: local, Space: markup.NamespaceA}
	}
	pic := func(local string) markup.Name {
		return markup.Name{Prefix: "pic", Local: local, Space: markup.NamespacePic}
	}
	attr := markup.NewAttr

	nvPicPr := markup.Wrap(pic("nvPicPr"), nil, append(
		markup.Empty(pic("cNvPr"), attr("id", "0"), attr("name", asset.Filename)),
		markup.Empty(pic("cNvPicPr"))...)...)

	blip := markup.Empty(a("blip"),
		markup.XMLNS("r", markup.NamespaceR),
		markup.Attr{Name: markup.Name{Prefix: "r", Local: "embed", Space: markup.NamespaceR}, Value: asset.RelID})
	blipFill := markup.Wrap(pic("blipFill"), nil, append(blip,
		markup.Wrap(a("stretch"), nil, markup.Empty(a("fillRect"))...)...)...)

	xfrm := markup.Wrap(a("xfrm"), nil, append(
		markup.Empty(a("off"), attr("x", "0"), attr("y", "0")),
		markup.Empty(a("ext"), attr("cx", w), attr("cy", h))...)...)
	spPr := markup.Wrap(pic("spPr"), nil, concat(
		xfrm,
		markup.Wrap(a("prstGeom"), []markup.Attr{attr("prst", "rect")}, markup.Empty(a("avLst"))...),
		markup.Empty(a("noFill")),
	)...)

	picture := markup.Wrap(pic("pic"), []markup.Attr{markup.XMLNS("pic", markup.NamespacePic)},
		concat(nvPicPr, blipFill, spPr)...)
	graphic := markup.Wrap(a("graphic"), []markup.Attr{markup.XMLNS("a", markup.NamespaceA)},
		markup.Wrap(a("graphicData"), []markup.Attr{attr("uri", markup.NamespacePic)}, picture...)...)

	return markup.Wrap(wp("inline"),
		[]markup.Attr{
			markup.XMLNS("wp", markup.NamespaceWP),
			attr("distT", "0"), attr("distB", "0"), attr("distL", "0"), attr("distR", "0"),
		},
		concat(
			markup.Empty(wp("extent"), attr("cx", w), attr("cy", h)),
			markup.Empty(wp("effectExtent"), attr("l", "0"), attr("t", "0"), attr("r", "3810"), attr("b", "3810")),
			markup.Empty(wp("docPr"), attr("id", strconv.Itoa(id)), attr("name", fmt.Sprintf("Picture %d", id))),
			markup.Wrap(wp("cNvGraphicFramePr"), nil,
				markup.Empty(a("graphicFrameLocks"), markup.XMLNS("a", markup.NamespaceA), attr("noChangeAspect", "1"))...),
			graphic,
		)...)
}

func concat(parts ...[]markup.Token) []markup.Token {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]markup.Token, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
