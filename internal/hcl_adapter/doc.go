// Package hcl_adapter loads belief-network definitions from HCL files.
//
// A definition is made of three block types which may be spread over any
// number of files:
//
//	network "respiratory" {
//	  default_baseline = 0.1
//	}
//
//	node "cancer" {
//	  role    = "disease"
//	  states  = ["yes", "no"]
//	  parents = ["smoking"]
//	  cpt     = [[0.15, 0.85], [0.01, 0.99]]
//	}
//
//	edge {
//	  parent = "cancer"
//	  child  = "xray"
//	}
//
// Everything is decoded into the format-agnostic config.Network; structural
// validation happens later in dag.Build. Two networks ship embedded in the
// binary and are available through Embedded.
package hcl_adapter
