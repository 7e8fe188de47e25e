package report

// ColorPolicy selects how rendered report rows are colored. The two damage
// meters disagree here, so the choice is surfaced as configuration instead
// of hardcoding one behavior.
type ColorPolicy string

const (
	// PolicyClass colors each row by the actor's class when the roster
	// knows it, falling back to alternating shades otherwise.
	PolicyClass ColorPolicy = "class"
	// PolicyAlternate ignores the roster and alternates two shades by row
	// parity.
	PolicyAlternate ColorPolicy = "alternate"
)

// CategoryFunc resolves an actor name to a class tag. The host backs this
// with its roster; a miss returns false.
type CategoryFunc func(actor string) (string, bool)

// Row is one display line of a reconstructed report. Headline rows span the
// full width with emphasis; data rows carry a left/right column pair and a
// hex color.
type Row struct {
	Left     string
	Right    string
	Color    string
	Headline bool
	Spacer   bool
}

var classColors = map[string]string{
	"deathknight": "#C41F3B",
	"druid":       "#FF7D0A",
	"hunter":      "#ABD473",
	"mage":        "#69CCF0",
	"paladin":     "#F58CBA",
	"priest":      "#FFFFFF",
	"rogue":       "#FFF569",
	"shaman":      "#0070DE",
	"warlock":     "#9482C9",
	"warrior":     "#C79C6E",
}

var alternatingShades = [2]string{"#E6E6E6", "#9E9E9E"}

// Render reconstructs a tracker into display rows: headline, spacer, then
// one row per captured line in capture order. A nil tracker renders as an
// empty report rather than an error; activation of a stale reference is a
// recoverable no-op.
func Render(t *Tracker, policy ColorPolicy, categoryOf CategoryFunc) []Row {
	if t == nil {
		return nil
	}
	rows := make([]Row, 0, len(t.Lines)+2)
	rows = append(rows, Row{Left: t.Headline, Headline: true})
	rows = append(rows, Row{Spacer: true})
	for i, line := range t.Lines {
		row := Row{Left: line, Color: alternatingShades[i%2]}
		if m := dataLinePattern.FindStringSubmatch(line); m != nil {
			row.Left = m[1] + ". " + m[2]
			row.Right = m[3]
			if policy == PolicyClass && categoryOf != nil {
				if class, ok := categoryOf(m[2]); ok {
					if color, ok := classColors[class]; ok {
						row.Color = color
					}
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}
