package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	devicons "github.com/epilande/go-devicons"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/term"

	"github.com/chmouel/lazycommit/internal/models"
	"github.com/chmouel/lazycommit/internal/theme"
)

// iconFileInfo adapts a staged filename for devicons lookup. The staged
// set only ever contains files, never directories.
type iconFileInfo struct {
	name string
}

func (i iconFileInfo) Name() string { return i.name }

func (i iconFileInfo) Size() int64 { return 0 }

func (i iconFileInfo) Mode() os.FileMode { return 0 }

func (i iconFileInfo) ModTime() time.Time { return time.Time{} }

func (i iconFileInfo) IsDir() bool { return false }

func (i iconFileInfo) Sys() any { return nil }

func deviconForName(name string) string {
	if name == "" {
		return ""
	}
	style := devicons.IconForInfo(iconFileInfo{name: name})
	return style.Icon
}

func iconWithSpace(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}

// changeIndicator returns the colored status marker for one staged file.
func changeIndicator(thm *theme.Theme, changeType string) string {
	switch changeType {
	case "A":
		return lipgloss.NewStyle().Foreground(thm.SuccessFg).Render(" [+]")
	case "D":
		return lipgloss.NewStyle().Foreground(thm.ErrorFg).Render(" [-]")
	case "M":
		return lipgloss.NewStyle().Foreground(thm.WarnFg).Render(" [~]")
	case "R":
		return lipgloss.NewStyle().Foreground(thm.MutedFg).Render(" [R]")
	case "C":
		return lipgloss.NewStyle().Foreground(thm.MutedFg).Render(" [C]")
	}
	return ""
}

// renderChangedFiles writes the staged set, one line per file, with an
// optional devicon and a colored change marker. Renames show the old
// path in muted text.
func renderChangedFiles(w io.Writer, thm *theme.Theme, files []models.CommitFile, showIcons bool) {
	if len(files) == 0 {
		return
	}

	fileStyle := lipgloss.NewStyle().Foreground(thm.TextFg)
	mutedStyle := lipgloss.NewStyle().Foreground(thm.MutedFg)

	fmt.Fprintf(w, "Staged changes:\n")
	for _, f := range files {
		devicon := ""
		if showIcons {
			devicon = iconWithSpace(deviconForName(f.Filename))
		}
		label := fileStyle.Render(devicon + f.Filename)
		if f.OldPath != "" {
			label = fmt.Sprintf("%s %s", mutedStyle.Render(f.OldPath+" ->"), label)
		}
		fmt.Fprintf(w, "  %s%s\n", label, changeIndicator(thm, f.ChangeType))
	}
}

// renderDraft draws the proposed message in a bordered box sized to the
// terminal.
func renderDraft(w io.Writer, thm *theme.Theme, draft string) {
	width := terminalWidth(w)
	if width > 100 {
		width = 100
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(thm.Accent).
		Padding(0, 1).
		Width(width - 2)

	content := wrap.String(draft, width-4)
	fmt.Fprintf(w, "\n%s\n", boxStyle.Render(content))
}

// terminalWidth probes the writer for a terminal size and falls back to
// 80 columns for pipes and test buffers.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}
