package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/collabmap/config"
	"github.com/lehigh-university-libraries/collabmap/helpers"
)

var (
	overridesExtra string
	overridesYAML  bool
)

var overridesCmd = &cobra.Command{
	Use:   "overrides",
	Short: "Show the manual coordinate overrides",
	Long: `Print the coordinate overrides that "locate" applies before searching.

Built-in overrides are merged with overrides.yaml in the configuration
directory and with --file; later sources replace earlier ones by name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := config.LoadOverrides(overridesExtra)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if overridesYAML {
			var entries []config.OverrideEntry
			for _, name := range overrides.Names() {
				c := overrides[name]
				entries = append(entries, config.OverrideEntry{Name: name, Latitude: c.Lat, Longitude: c.Lon})
			}
			data, err := yaml.Marshal(map[string]any{"locations": entries})
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(data))
			return nil
		}

		if len(overrides) == 0 {
			fmt.Fprintln(out, "No overrides found")
			return nil
		}

		fmt.Fprintf(out, "%-50s %12s %12s\n", "Institution", "Latitude", "Longitude")
		for _, name := range overrides.Names() {
			lat, lon := overrides[name].Strings()
			fmt.Fprintf(out, "%-50s %12s %12s\n", helpers.TruncateText(name, 50), lat, lon)
		}
		return nil
	},
}

func init() {
	overridesCmd.Flags().StringVar(&overridesExtra, "file", "", "Additional overrides file")
	overridesCmd.Flags().BoolVar(&overridesYAML, "yaml", false, "Print as YAML in the overrides file layout")
}
