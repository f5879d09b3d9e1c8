package extract

import (
	"fmt"
	"strings"

	"github.com/dgallion1/steelbid/internal/drawing"
)

const ExtractionPrompt = `You are a structural steel estimator doing a material takeoff from construction drawings.

List every steel member shown: beams, girders, joists called out by section, columns, braces, struts, HSS, angles, channels, pipe, base plates, gussets, connection plates, embeds, lintels, stairs, handrails, ladders, grating and other miscellaneous steel.

Return a JSON array. Each element is an object with these fields:
- "mark": piece mark as shown (e.g. "B1", "C-3"); if none, a short type code such as "B", "C", "BR"
- "description": what the member is (e.g. "Wide flange beam", "HSS column", "Base plate")
- "section": the size designation exactly as called out (e.g. "W12x26", "HSS6x6x1/4", "L4x4x3/8", "PL1/2x8", "PIPE3STD"); "TBD" when no size is shown
- "category": one of "Structural", "Misc", "Plate", "Connection"
- "quantity": number of identical pieces (integer, at least 1)
- "length_ft": length of one piece in decimal feet; 0 when it cannot be determined from dimensions
- "notes": grid line, level, elevation or other location context
- "page": drawing page the member appears on, when known

Rules:
- One element per distinct mark and size; do not repeat a member listed on a schedule and again on a plan.
- Convert feet-inch dimensions to decimal feet (20'-6" is 20.5).
- Pages with no structural steel (cover sheets, general notes, architectural plans) contribute nothing.
- Include uncertain members rather than omitting them, and say why in notes.
- Return an empty array [] if there is no steel.

Respond with ONLY the JSON array, no other text.`

// BuildPrompt creates the takeoff prompt for a batch, with the drawing title
// and the page range or sheet path the batch covers.
func BuildPrompt(title string, b drawing.Batch) string {
	var sb strings.Builder
	sb.WriteString(ExtractionPrompt)
	sb.WriteString("\n\n---\n")
	if title != "" {
		sb.WriteString(fmt.Sprintf("Drawing: %q\n", title))
	}
	switch {
	case b.PageStart > 0 && b.PageEnd > b.PageStart:
		sb.WriteString(fmt.Sprintf("Pages: %d-%d\n", b.PageStart, b.PageEnd))
	case b.PageStart > 0:
		sb.WriteString(fmt.Sprintf("Page: %d\n", b.PageStart))
	}
	if len(b.Breadcrumb) > 0 && b.PageStart == 0 {
		sb.WriteString("Sheet: ")
		sb.WriteString(strings.Join(b.Breadcrumb, " > "))
		sb.WriteString("\n")
	}
	sb.WriteString("---\n")
	switch {
	case b.HasAttachment() && b.PageEnd > b.PageStart:
		sb.WriteString(fmt.Sprintf("The attached file holds pages %d-%d of the drawing set.", b.PageStart, b.PageEnd))
	case b.HasAttachment():
		sb.WriteString("The drawing is attached.")
	default:
		sb.WriteString(b.Text)
	}
	return sb.String()
}
