package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Printer writes entities to w. On a terminal it colours states and tiers and renders
// markdown with glamour; elsewhere it writes the plain line formats.
type Printer struct {
	w       io.Writer
	rich    bool
	profile termenv.Profile
}

// NewPrinter detects whether w is an interactive terminal.
func NewPrinter(w io.Writer) *Printer {
	f, ok := w.(*os.File)
	rich := ok && term.IsTerminal(int(f.Fd()))
	return &Printer{w: w, rich: rich, profile: termenv.EnvColorProfile()}
}

// NewPlainPrinter never colours, whatever w is.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w, profile: termenv.Ascii}
}

// Rich reports whether colours and markdown rendering are on.
func (p *Printer) Rich() bool {
	return p.rich
}

func (p *Printer) Clients(clients []*network.Client) {
	for _, c := range clients {
		p.line(p.colourTier(Client(c), c.Tier()))
	}
}

func (p *Printer) Terminals(terminals []*network.Terminal) {
	for _, t := range terminals {
		p.line(p.colourState(Terminal(t), t.State()))
	}
}

func (p *Printer) Communications(comms []*network.Communication) {
	for _, c := range comms {
		p.line(Communication(c))
	}
}

func (p *Printer) Notifications(notes []domain.Notification) {
	for _, n := range notes {
		p.line(Notification(n))
	}
}

// Message writes a free-form line.
func (p *Printer) Message(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

// Markdown renders md with glamour on a terminal, or writes it as is.
func (p *Printer) Markdown(md string) error {
	if !p.rich {
		_, err := io.WriteString(p.w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(p.w, out)
	return err
}

func (p *Printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

var stateColours = map[string]string{
	"IDLE":    "#4ade80",
	"SILENCE": "#facc15",
	"BUSY":    "#f472b6",
	"OFF":     "#9ca3af",
}

var tierColours = map[domain.TierKind]string{
	domain.TierGold:     "#fbbf24",
	domain.TierPlatinum: "#a78bfa",
}

// colourState paints the state field of a terminal line.
func (p *Printer) colourState(line string, st domain.State) string {
	colour, ok := stateColours[st.Name()]
	if !p.rich || !ok {
		return line
	}
	return paintField(line, "|"+st.Name()+"|", termenv.String(st.Name()).Foreground(p.profile.Color(colour)).String())
}

// colourTier paints the tier field of a client line.
func (p *Printer) colourTier(line string, tier domain.TierKind) string {
	colour, ok := tierColours[tier]
	if !p.rich || !ok {
		return line
	}
	return paintField(line, "|"+tier.String()+"|", termenv.String(tier.String()).Bold().Foreground(p.profile.Color(colour)).String())
}

func paintField(line, field, painted string) string {
	return strings.Replace(line, field, "|"+painted+"|", 1)
}
