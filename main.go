package main

import (
	"github.com/lehigh-university-libraries/collabmap/cmd"

	// Register table formats
	_ "github.com/lehigh-university-libraries/collabmap/format/collaborations"
	_ "github.com/lehigh-university-libraries/collabmap/format/edgelist"
	_ "github.com/lehigh-university-libraries/collabmap/format/locations"
	_ "github.com/lehigh-university-libraries/collabmap/format/papers"
)

func main() {
	cmd.Execute()
}
