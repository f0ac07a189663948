package ui

import (
	"fmt"
	"os"

	"github.com/aptpac/aptpac/aur"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TransactionSummary renders the apt-style pre-install summary for a
// resolved AUR transaction. officialVersions supplies repo versions for the
// official dependencies when known; missing entries render blank.
func TransactionSummary(res *aur.Resolution, explicit []string, officialVersions map[string]string) {
	explicitSet := make(map[string]struct{}, len(explicit))
	for _, name := range explicit {
		explicitSet[name] = struct{}{}
	}

	Statusln("Building dependency tree... Done")
	Statusln("Reading state information... Done")
	fmt.Println()
	Statusln("The following NEW packages will be installed:")

	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Package", "Version", "Source"})

	count := 0
	for _, meta := range res.BuildQueue {
		members := res.PackageBases[meta.Base()]
		if len(members) == 0 {
			members = []string{meta.Name}
		}

		// Every binary package of a split base is listed, even though the
		// base occupies a single build slot.
		for _, name := range members {
			label := name
			if _, ok := explicitSet[name]; ok {
				label = text.Bold.Sprint(name)
			}

			w.AppendRow(table.Row{label, meta.Version, "aur"})
			count++
		}
	}

	for _, name := range res.OfficialDeps {
		w.AppendRow(table.Row{name, officialVersions[name], "repo"})
		count++
	}

	w.Render()

	fmt.Println()
	Statusln(fmt.Sprintf("0 upgraded, %d newly installed, 0 to remove and 0 not upgraded.", count))
}

// UpdatesSummary renders pending AUR updates.
func UpdatesSummary(updates []aur.Update) {
	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Package", "Installed", "Available"})

	for _, update := range updates {
		w.AppendRow(table.Row{update.Name, update.Current, update.New})
	}

	w.Render()
}

// SearchResults renders AUR search hits in apt search style.
func SearchResults(results []*aur.PackageMetadata) {
	for _, meta := range results {
		fmt.Printf("%s/%s %s\n", Colors.Green("aur"), Colors.Bold("%s", meta.Name), meta.Version)

		if meta.Description != "" {
			fmt.Printf("  %s\n", Colors.Dim("%s", meta.Description))
		}
	}
}
