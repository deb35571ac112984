package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"progbuild/go/pkg/compose"
	"progbuild/go/pkg/profile"

	"github.com/pelletier/go-toml"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var profilesFormat string

// profileDocument is the serialised form of the registry.
type profileDocument struct {
	Profiles []profile.BuildProfile `json:"profiles" toml:"profile"`
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Lists the built-in platform build profiles.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Debug("profile", "render", "progress", "Rendering build profiles", "format", profilesFormat)
		return renderProfiles(cmd.OutOrStdout(), profilesFormat, profile.All())
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.Flags().StringVar(&profilesFormat, "format", "text", "Output format: text, json or toml.")
}

func renderProfiles(w io.Writer, format string, profiles []profile.BuildProfile) error {
	doc := profileDocument{Profiles: profiles}
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "toml":
		data, err := toml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "text", "":
		base := compose.DefaultCommonConfig().BaseExecutableName
		data := pterm.TableData{{"Platform", "Defines", "Extra flags", "Include paths", "Libraries", "Output"}}
		for _, p := range profiles {
			data = append(data, []string{
				p.Platform.DisplayName(),
				strings.Join(p.Definitions, " "),
				strings.Join(p.ExtraCompilerFlags, " "),
				strings.Join(p.IncludePaths, " "),
				strings.Join(p.Libraries, " "),
				p.OutputName(base),
			})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, table)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json or toml)", format)
	}
}
