// Package svgrender renders a problem's layout to SVG: the external
// collaborator named (but left out of scope) by spec.md §6 ("An SVG renderer
// consumes a LayoutSnapshot + instance + draw options"), implemented here so
// the optimise/render CLI subcommands are runnable end to end. Grounded on
// original_source/src/util/io/layout_to_svg.rs's structure (group per item,
// polygon path, bin outline, corner label), expressed with manual string
// building the same way the original does rather than an XML/SVG library --
// the document has no namespaces or attributes variable enough to need one.
package svgrender

import (
	"fmt"
	"strings"

	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

// Options controls rendering cosmetics.
type Options struct {
	ItemFill     string
	ItemStroke   string
	BinStroke    string
	ViewBoxScale float64 // bbox padding multiplier, matches layout_to_svg.rs's bbox.scale(1.10)
}

// DefaultOptions returns the renderer's default theme.
func DefaultOptions() Options {
	return Options{
		ItemFill:     "#cfe8ff",
		ItemStroke:   "#1b4965",
		BinStroke:    "black",
		ViewBoxScale: 1.10,
	}
}

// Render builds a complete SVG document for prob's current layout, labeled
// with title (typically the instance name and a progress-event kind).
func Render(prob *problem.Problem, title string, opts Options) string {
	container := prob.Layout.Container.Rect()
	padW := container.Width() * (opts.ViewBoxScale - 1) / 2
	padH := container.Height() * (opts.ViewBoxScale - 1) / 2
	minDim := container.Width()
	if container.Height() < minDim {
		minDim = container.Height()
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.3f %.3f %.3f %.3f">`+"\n",
		-padW, -padH, container.Width()+2*padW, container.Height()+2*padH)

	fmt.Fprintf(&b, `<text x="%.3f" y="%.3f" font-size="%.3f" font-family="monospace">height: %.3f | width: %.3f | usage: %.3f%% | %s</text>`+"\n",
		-padW, -padH*0.5, minDim*0.025, container.Height(), container.Width(), prob.Usage()*100, escape(title))

	fmt.Fprintf(&b, `<rect id="bin" x="0" y="0" width="%.3f" height="%.3f" fill="none" stroke="%s" stroke-width="%.3f"/>`+"\n",
		container.Width(), container.Height(), opts.BinStroke, minDim*0.002)

	for pk, pi := range prob.Layout.Placed {
		fmt.Fprintf(&b, `<g id="item_%s">`+"\n", pk)
		fmt.Fprintf(&b, `<title>item %d, pk %s</title>`+"\n", pi.ItemID, pk)
		b.WriteString(polygonPath(pi.Shape(), opts.ItemFill, opts.ItemStroke, minDim))
		b.WriteString("</g>\n")
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// polygonPath renders shape as a single closed SVG path.
func polygonPath(shape geo.Polygon, fill, stroke string, minDim float64) string {
	var d strings.Builder
	for i, p := range shape.Points {
		if i == 0 {
			fmt.Fprintf(&d, "M %.3f,%.3f ", p.X, p.Y)
		} else {
			fmt.Fprintf(&d, "L %.3f,%.3f ", p.X, p.Y)
		}
	}
	d.WriteString("Z")
	return fmt.Sprintf(`<path d="%s" fill="%s" stroke="%s" stroke-width="%.3f"/>`+"\n",
		d.String(), fill, stroke, minDim*0.001)
}

func escape(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
