package driver

import (
	"fmt"
	"io"
	"strings"

	"progbuild/go/pkg/platform"

	"github.com/pterm/pterm"
)

const bannerWidth = 79

var (
	bannerRuleStyle  = pterm.NewStyle(pterm.FgLightGreen)
	bannerTitleStyle = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	commandStyle     = pterm.NewStyle(pterm.FgLightCyan)
)

// BannerLines returns the three unstyled banner lines announcing a build on k.
func BannerLines(k platform.Key) []string {
	rule := strings.Repeat("=", bannerWidth)
	title := " Compiling on: " + k.DisplayName() + " "
	left := (bannerWidth - len(title)) / 2
	if left < 0 {
		left = 0
	}
	right := bannerWidth - left - len(title)
	if right < 0 {
		right = 0
	}
	return []string{rule, strings.Repeat("=", left) + title + strings.Repeat("=", right), rule}
}

// WriteBanner prints the build banner to w.
func WriteBanner(w io.Writer, k platform.Key) error {
	lines := BannerLines(k)
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n",
		bannerRuleStyle.Sprint(lines[0]),
		bannerTitleStyle.Sprint(lines[1]),
		bannerRuleStyle.Sprint(lines[2]))
	return err
}

// WriteCommand prints a composed command line to w, as a dry run shows it.
func WriteCommand(w io.Writer, line string) error {
	_, err := fmt.Fprintln(w, commandStyle.Sprint(line))
	return err
}
