package edgelist

import "github.com/lehigh-university-libraries/collabmap/collab"

// Samples are the small demonstration edgelists keyed by file name.
var Samples = map[string][]collab.Edge{
	"graph1_edgelist.csv": {
		{Source: "author1id", Target: "20", Label: "Graph Drawing"},
		{Source: "author2id", Target: "35", Label: "IEEE VIS"},
	},
	"graph2_edgelist.csv": {
		{Source: "author1id", Target: "11", Label: "ConfX"},
	},
	"graph3_edgelist.csv": {
		{Source: "author3id", Target: "2", Label: "ConfX"},
	},
}
